// Package trigger defines the set of contexts a smart contract's
// verification or entry script can run under.
package trigger

import "fmt"

// Type represents the trigger (event context) under which a script runs.
type Type byte

// Trigger types.
const (
	// OnPersist is triggered when a block is being persisted.
	OnPersist Type = 0x01
	// PostPersist is triggered after a block has been persisted.
	PostPersist Type = 0x02
	// Verification is triggered when a contract is verifying a witness.
	Verification Type = 0x20
	// Application is triggered during normal contract invocation.
	Application Type = 0x40
	// All is the union of every trigger type, used when querying stored
	// results without filtering by trigger.
	All = OnPersist | PostPersist | Verification | Application
)

// String implements the stringer interface.
func (t Type) String() string {
	switch t {
	case OnPersist:
		return "OnPersist"
	case PostPersist:
		return "PostPersist"
	case Verification:
		return "Verification"
	case Application:
		return "Application"
	case All:
		return "All"
	default:
		return fmt.Sprintf("Unknown(%x)", byte(t))
	}
}

// FromString parses a Type from its string representation.
func FromString(s string) (Type, error) {
	switch s {
	case "OnPersist":
		return OnPersist, nil
	case "PostPersist":
		return PostPersist, nil
	case "Verification":
		return Verification, nil
	case "Application":
		return Application, nil
	case "All":
		return All, nil
	default:
		return 0, fmt.Errorf("unknown trigger type: %s", s)
	}
}
