package hash

import (
	"errors"

	"github.com/n3core/neogo/pkg/util"
)

// MerkleTreeNode is a single node of a MerkleTree: either a leaf (both
// children nil) holding a transaction/item hash, or an interior node holding
// the hash of its two children.
type MerkleTreeNode struct {
	hash        util.Uint256
	parent      *MerkleTreeNode
	leftChild   *MerkleTreeNode
	rightChild  *MerkleTreeNode
}

// Hash returns the node's hash.
func (n MerkleTreeNode) Hash() util.Uint256 {
	return n.hash
}

// IsLeaf returns true iff n has no children.
func (n MerkleTreeNode) IsLeaf() bool {
	return n.leftChild == nil && n.rightChild == nil
}

// IsRoot returns true iff n has no parent.
func (n MerkleTreeNode) IsRoot() bool {
	return n.parent == nil
}

// MerkleTree represents a Merkle tree over a fixed list of hashes.
type MerkleTree struct {
	root  *MerkleTreeNode
	depth int
}

// NewMerkleTree builds a MerkleTree over hashes. It returns an error if
// hashes is empty.
func NewMerkleTree(hashes []util.Uint256) (*MerkleTree, error) {
	if len(hashes) == 0 {
		return nil, errors.New("hash: length of the hashes cannot be zero")
	}

	nodes := make([]*MerkleTreeNode, len(hashes))
	for i := range hashes {
		nodes[i] = &MerkleTreeNode{hash: hashes[i]}
	}

	root := buildMerkleTree(nodes)
	return &MerkleTree{
		root:  root,
		depth: 1,
	}, nil
}

// Root returns the computed root hash of the tree.
func (t *MerkleTree) Root() util.Uint256 {
	return t.root.hash
}

// buildMerkleTree recursively pairs up leaves into parents until a single
// root remains. An odd node out at any level is paired with itself, matching
// the protocol's convention for computing block and transaction Merkle
// roots. It panics on an empty leaf slice: called only internally on
// already-validated, non-empty input.
func buildMerkleTree(leaves []*MerkleTreeNode) *MerkleTreeNode {
	if len(leaves) == 0 {
		panic("hash: length of the leaves cannot be zero")
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	parents := make([]*MerkleTreeNode, (len(leaves)+1)/2)
	for i := range parents {
		parents[i] = &MerkleTreeNode{}
		parents[i].leftChild = leaves[i*2]
		leaves[i*2].parent = parents[i]

		if i*2+1 == len(leaves) {
			parents[i].rightChild = parents[i].leftChild
		} else {
			parents[i].rightChild = leaves[i*2+1]
			leaves[i*2+1].parent = parents[i]
		}

		buf := append(parents[i].leftChild.hash.BytesBE(), parents[i].rightChild.hash.BytesBE()...)
		parents[i].hash = DoubleSha256(buf)
	}

	return buildMerkleTree(parents)
}

// CalcMerkleRoot computes a Merkle root directly, without allocating the
// intermediate tree structure NewMerkleTree builds. Prefer this when only
// the root is needed (block/transaction hashing).
func CalcMerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		next := make([]util.Uint256, (len(level)+1)/2)
		for i := range next {
			left := level[i*2]
			var right util.Uint256
			if i*2+1 == len(level) {
				right = left
			} else {
				right = level[i*2+1]
			}
			buf := append(left.BytesBE(), right.BytesBE()...)
			next[i] = DoubleSha256(buf)
		}
		level = next
	}

	return level[0]
}
