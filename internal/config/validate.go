package config

import "errors"

// Validate checks the manifest for combinations that cannot describe a
// launch.
func (l *Launch) Validate() error {
	if len(l.Command) == 0 {
		return errors.New("command: at least one element is required")
	}
	if l.Command[0] == "" {
		return errors.New("command[0]: program must not be empty")
	}
	if l.Timeout.Duration < 0 {
		return errors.New("timeout: must not be negative")
	}
	if l.Detach && l.Timeout.Duration != 0 {
		return errors.New("timeout: cannot be combined with detach")
	}
	return nil
}
