//go:build !linux && !darwin && !windows

package notify

func newLinuxSender() Sender   { return &noopSender{} }
func newDarwinSender() Sender  { return &noopSender{} }
func newWindowsSender() Sender { return &noopSender{} }
