//go:build !windows

package shimcache

import "errors"

var errNotSupported = errors.New("shimcache: unsupported on this platform")

var shimcacheLocations = []string{
	`SYSTEM\CurrentControlSet\Control\Session Manager\AppCompatCache`,
	`SYSTEM\CurrentControlSet\Control\Session Manager\AppCompatibility\AppCompatCache`,
	`SYSTEM\ControlSet001\Control\Session Manager\AppCompatCache`,
	`SYSTEM\ControlSet002\Control\Session Manager\AppCompatCache`,
}

func readAppCompatCache(keyPath string) ([]byte, error) {
	return nil, errNotSupported
}
