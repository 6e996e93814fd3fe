package hash

import "github.com/neocorex/neogo/pkg/util"

// MerkleTreeRoot computes the Merkle root of the given leaf hashes using
// pairwise DoubleSha256 of concatenated siblings. An odd node at a level is
// paired with a duplicate of itself. An empty input yields the zero hash.
func MerkleTreeRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]util.Uint256, len(level)/2)
		buf := make([]byte, util.Uint256Size*2)
		for i := 0; i < len(next); i++ {
			copy(buf[:util.Uint256Size], level[2*i][:])
			copy(buf[util.Uint256Size:], level[2*i+1][:])
			next[i] = DoubleSha256(buf)
		}
		level = next
	}
	return level[0]
}
