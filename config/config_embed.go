// Package config contains embedded YAML protocol configuration files for
// the networks this node ships defaults for.
package config

import (
	_ "embed"
)

// MainNet is the Neo N3 mainnet configuration.
//
//go:embed protocol.mainnet.yml
var MainNet []byte

// TestNet is the Neo N3 testnet configuration.
//
//go:embed protocol.testnet.yml
var TestNet []byte

// PrivNet is the private network configuration used by local test chains.
//
//go:embed protocol.privnet.yml
var PrivNet []byte
