//go:build windows

package shimcache

import (
	"golang.org/x/sys/windows/registry"
)

// shimcacheLocations lists the registry keys that may hold the
// AppCompatCache value, in lookup order. Later ControlSet copies are
// included because CurrentControlSet is a symlink that may not exist on
// an offline or unusual configuration.
var shimcacheLocations = []string{
	`SYSTEM\CurrentControlSet\Control\Session Manager\AppCompatCache`,
	`SYSTEM\CurrentControlSet\Control\Session Manager\AppCompatibility\AppCompatCache`,
	`SYSTEM\ControlSet001\Control\Session Manager\AppCompatCache`,
	`SYSTEM\ControlSet002\Control\Session Manager\AppCompatCache`,
}

func readAppCompatCache(keyPath string) ([]byte, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, keyPath, registry.READ)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	data, _, err := key.GetBinaryValue("AppCompatCache")
	if err != nil {
		return nil, err
	}
	return data, nil
}
