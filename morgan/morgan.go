// Package morgan computes extended-connectivity (EC) values over molecules:
// a seed pass from purely local atom attributes, then refinement rounds that
// fold in neighbor values, in the manner of Morgan's canonical-numbering
// algorithm.
package morgan

import (
	"github.com/psuresearch/Mapper/chem"
)

// Seed returns the round-zero EC sequence for m: one value per atom, derived
// only from that atom's local attributes.  Two atoms with identical element,
// degree, charge, and aromaticity seed identically regardless of position.
func Seed(m chem.Molecule) chem.ECSeq {
	Na := m.NumAtoms()
	ecs := make(chem.ECSeq, Na)
	for i := 0; i < Na; i++ {
		ecs[i] = m.AtomInvariant(i)
	}
	return ecs
}

// Refine returns the next refinement round: each atom's new EC is its own
// previous value plus the sum of its neighbors' previous values.  Addition
// commutes, so the result does not depend on neighbor traversal order;
// overflow wraps and stays deterministic.
//
// prev must have been computed against the molecule in its current state;
// chem.ErrECsOutOfSync is returned when the lengths disagree.
func Refine(m chem.Molecule, prev chem.ECSeq) (chem.ECSeq, error) {
	Na := m.NumAtoms()
	if len(prev) != Na {
		return nil, chem.ErrECsOutOfSync
	}

	next := make(chem.ECSeq, Na)
	var nbrs []int
	for i := 0; i < Na; i++ {
		v := prev[i]
		nbrs = m.Neighbors(nbrs[:0], i)
		for _, ni := range nbrs {
			v += prev[ni]
		}
		next[i] = v
	}
	return next, nil
}
