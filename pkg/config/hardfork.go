package config

// Hardfork represents the application hard-fork identifier.
type Hardfork byte

// String returns the human-readable hardfork name, as used in the
// Hardforks configuration section and CLI reporting.
func (hf Hardfork) String() string {
	switch hf {
	case HFDefault:
		return "Default"
	case HFAspidochelone:
		return "Aspidochelone"
	case HFBasilisk:
		return "Basilisk"
	case HFCockatrice:
		return "Cockatrice"
	case HFDomovoi:
		return "Domovoi"
	case HFEchidna:
		return "Echidna"
	case HFFaun:
		return "Faun"
	default:
		return "Unknown"
	}
}

// HFDefault is a default value of Hardfork enum. It's a special constant
// aimed to denote the node code enabled by default starting from the
// genesis block. HFDefault is not a hard-fork, but this constant can be used for
// convenient hard-forks comparison and to refer to the default hard-fork-less
// node behaviour.
const HFDefault Hardfork = 0 // Default

const (
	// HFAspidochelone adjusts syscall prices and NEP-17 transfer semantics.
	HFAspidochelone Hardfork = 1 << iota // Aspidochelone
	// HFBasilisk tightens contract deployment and native contract checks.
	HFBasilisk // Basilisk
	// HFCockatrice changes notification and exception handling semantics.
	HFCockatrice // Cockatrice
	// HFDomovoi switches the contract-call permission check to use the
	// executing contract's state instead of the stored Management state, and
	// makes System.Runtime.GetNotifications count stack references of
	// notification parameters against vm.MaxStackSize.
	HFDomovoi // Domovoi
	// HFEchidna carries a further round of native contract and interop fixes.
	HFEchidna // Echidna
	// HFFaun is the next hardfork in development; not yet stable.
	HFFaun // Faun
	// hfLast denotes the end of hardforks enum. Consider adding new hardforks
	// before hfLast.
	hfLast
)

// HFLatestStable is the latest known stable hardfork that is enabled by
// default. The set above can contain other hardforks and even some name
// placeholders, but they need to be enabled manually then. It can change
// between releases even if the set of known hardforks is the same.
const HFLatestStable = HFEchidna

// HFLatestKnown is the latest known hardfork.
const HFLatestKnown = hfLast >> 1

// StableHardforks is an ordered slice of all stable hardforks (before or
// equal [HFLatestStable]).
var StableHardforks []Hardfork

// Hardforks represents the ordered slice of all possible hardforks.
var Hardforks []Hardfork

// hardforks holds a map of Hardfork string representation to its type.
var hardforks = make(map[string]Hardfork)

func init() {
	var stableIndex int

	for i := HFAspidochelone; i < hfLast; i = i << 1 {
		if i <= HFLatestStable {
			stableIndex++
		}
		Hardforks = append(Hardforks, i)
		hardforks[i.String()] = i
	}
	StableHardforks = Hardforks[:stableIndex]
}

// Cmp returns the result of hardforks comparison. It returns:
//
//	-1 if hf <  other
//	 0 if hf == other
//	+1 if hf >  other
func (hf Hardfork) Cmp(other Hardfork) int {
	switch {
	case hf == other:
		return 0
	case hf < other:
		return -1
	default:
		return 1
	}
}

// Prev returns the previous hardfork for the given one. Calling Prev for the default hardfork is a no-op.
func (hf Hardfork) Prev() Hardfork {
	if hf == HFDefault {
		panic("unexpected call to Prev for the default hardfork")
	}
	return hf >> 1
}

// IsHardforkValid denotes whether the provided string represents a valid
// Hardfork name.
func IsHardforkValid(s string) bool {
	_, ok := hardforks[s]
	return ok
}
