//go:build windows

package envpath

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const environmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

// machineStore persists PATH through the HKLM environment key, the same
// store the system reads when launching new sessions.
type machineStore struct{}

// Machine returns the store backing the machine-wide environment.
func Machine() (Store, error) {
	return machineStore{}, nil
}

func (machineStore) Get() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, environmentKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open environment key: %w", err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue("Path")
	if err != nil {
		return "", fmt.Errorf("read machine PATH: %w", err)
	}
	return value, nil
}

func (machineStore) Set(value string) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, environmentKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open environment key: %w", err)
	}
	defer key.Close()

	if err := key.SetExpandStringValue("Path", value); err != nil {
		return fmt.Errorf("write machine PATH: %w", err)
	}
	return nil
}
