//go:build !windows

package envpath

import "errors"

// Machine is only implemented on Windows; the provisioning flow targets the
// Windows environment store exclusively.
func Machine() (Store, error) {
	return nil, errors.New("machine environment store is only available on windows")
}
