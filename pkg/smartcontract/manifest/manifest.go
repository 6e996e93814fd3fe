// Package manifest implements the contract manifest: the ABI, permission
// and metadata document a deployed contract carries alongside its NEF.
//
// This implementation covers the subset of the manifest a ledger needs to
// store and round-trip a deployed contract (ABI methods/events,
// permissions, trusts, groups, supported standards, extra metadata). The
// wildcard-container and extended-type parameter machinery real N3
// tooling additionally layers on top of this (compiler-facing IDE hints,
// fine-grained permission wildcarding beyond "allow all") is not
// implemented; see DESIGN.md.
package manifest

import "github.com/neocorex/neogo/pkg/smartcontract"

// MethodDeploy is the name of the optional lifecycle method a contract
// may implement to run one-time initialization on deploy/update.
const MethodDeploy = "_deploy"

// Manifest describes a deployed contract: its ABI, the permissions it
// needs from other contracts, and descriptive metadata.
type Manifest struct {
	Name               string            `json:"name"`
	ABI                ABI               `json:"abi"`
	Groups             []Group           `json:"groups"`
	SupportedStandards []string          `json:"supportedstandards"`
	Permissions        []Permission      `json:"permissions"`
	Trusts             []string          `json:"trusts"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// ABI is a contract's application binary interface: the methods and
// events it exposes.
type ABI struct {
	Methods []Method `json:"methods"`
	Events  []Event  `json:"events"`
}

// Method describes one entry point of a contract.
type Method struct {
	Name       string                  `json:"name"`
	Parameters []Parameter             `json:"parameters"`
	ReturnType smartcontract.ParamType `json:"returntype"`
	Offset     int                     `json:"offset"`
	Safe       bool                    `json:"safe"`
}

// Event describes one notification a contract may raise.
type Event struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is a single method or event parameter.
type Parameter struct {
	Name string                  `json:"name"`
	Type smartcontract.ParamType `json:"type"`
}

// Group is a signature attesting that a set of contracts belong to the
// same publisher.
type Group struct {
	PublicKey string `json:"pubkey"`
	Signature string `json:"signature"`
}

// Permission declares a contract or method this contract is allowed to
// call. "*" for Contract/Methods means "any".
type Permission struct {
	Contract string   `json:"contract"`
	Methods  []string `json:"methods"`
}

// NewManifest returns an empty manifest for a contract named name: no
// methods, no permissions, no trusts.
func NewManifest(name string) *Manifest {
	return &Manifest{
		Name: name,
		ABI: ABI{
			Methods: []Method{},
			Events:  []Event{},
		},
		Groups:             []Group{},
		SupportedStandards: []string{},
		Permissions:        []Permission{},
		Trusts:             []string{},
	}
}

// DefaultManifest returns a manifest for name with the permissive
// default permission set new contracts get until they're deployed with
// an explicit one: calling any method on any contract.
func DefaultManifest(name string) *Manifest {
	m := NewManifest(name)
	m.Permissions = []Permission{{Contract: "*", Methods: []string{"*"}}}
	return m
}
