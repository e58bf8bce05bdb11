package audiodev

import "strings"

// Change describes one sound-subsystem hotplug event.
type Change struct {
	Action string
	Device string
}

// ChangeFunc is invoked from the monitor goroutine for every matched event.
type ChangeFunc func(Change)

// deviceFromEnv picks the most specific identifier a uevent carries.
func deviceFromEnv(env map[string]string) string {
	if name := env["DEVNAME"]; name != "" {
		return name
	}
	devpath := env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return parts[len(parts)-1]
}
