// Package audiodev lists audio output devices and watches for hotplug
// events so the player can re-resolve its configured device.
package audiodev

import (
	"strings"
)

// Device is one audio output sink.
type Device struct {
	Index string
	Name  string
	State string
}

// ParseSinks parses `pactl list short sinks` output. Lines are tab separated:
// index, name, module, sample spec, state. Blank and short lines are skipped.
func ParseSinks(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			fields = strings.Fields(line)
		}
		if len(fields) < 2 {
			continue
		}
		d := Device{Index: fields[0], Name: fields[1]}
		if len(fields) >= 5 {
			d.State = fields[len(fields)-1]
		}
		devices = append(devices, d)
	}
	return devices
}

// Resolve returns configured when it names one of devices, otherwise the
// empty string, which means the system default output.
func Resolve(configured string, devices []Device) string {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return ""
	}
	for _, d := range devices {
		if d.Name == configured {
			return configured
		}
	}
	return ""
}

// Names returns the device names in listing order.
func Names(devices []Device) []string {
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.Name)
	}
	return names
}
