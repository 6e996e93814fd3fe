package address

import "errors"

var (
	errShortAddress = errors.New("address has wrong length")
	errBadVersion   = errors.New("address has unexpected version byte")
)
