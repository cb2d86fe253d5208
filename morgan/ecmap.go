package morgan

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"

	"github.com/psuresearch/Mapper/chem"
)

// ECMap indexes an EC sequence by value: EC value -> ascending atom indices.
// It is backed by an ordered tree so key iteration (and therefore everything
// derived from it) is reproducible across runs.
type ECMap struct {
	tree *redblacktree.Tree
}

func NewECMap(ecs chem.ECSeq) *ECMap {
	em := &ECMap{
		tree: redblacktree.NewWith(utils.UInt64Comparator),
	}
	for i, v := range ecs {
		var atoms []int
		if node, found := em.tree.Get(v); found {
			atoms = node.([]int)
		}
		em.tree.Put(v, append(atoms, i))
	}
	return em
}

// Len returns the number of distinct EC values.
func (em *ECMap) Len() int {
	return em.tree.Size()
}

// AtomsFor returns the ascending atom indices holding the given EC value,
// or nil if no atom does.
func (em *ECMap) AtomsFor(ec uint64) []int {
	if node, found := em.tree.Get(ec); found {
		return node.([]int)
	}
	return nil
}

// Contains returns true if some atom holds the given EC value.
func (em *ECMap) Contains(ec uint64) bool {
	_, found := em.tree.Get(ec)
	return found
}

// CommonECs returns the EC values present in both maps, ascending.
func (em *ECMap) CommonECs(other *ECMap) []uint64 {
	var common []uint64
	it := em.tree.Iterator()
	for it.Next() {
		ec := it.Key().(uint64)
		if other.Contains(ec) {
			common = append(common, ec)
		}
	}
	return common
}
