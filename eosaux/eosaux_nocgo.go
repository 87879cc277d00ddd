//go:build tinygo || !cgo

package eosaux

import "errors"

func ui(k KernelSource, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
