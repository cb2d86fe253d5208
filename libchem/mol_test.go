package libchem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psuresearch/Mapper/libchem"
)

// buildChain assembles a molecule atom by atom, bonds given as
// {one-based a, one-based b, bond type} triples.
func buildChain(t *testing.T, els []libchem.Element, bonds [][3]int) *libchem.Mol {
	m := libchem.NewMol(nil)
	for _, el := range els {
		m.AddAtom(libchem.Atom{El: el, HCount: -1})
	}
	for _, b := range bonds {
		err := m.AddBond(libchem.BondType(b[2]), libchem.AtomID(b[0]), libchem.AtomID(b[1]))
		require.NoError(t, err)
	}
	return m
}

func TestRemoveAtomsRenumbering(t *testing.T) {
	require := require.New(t)

	// C-C-C-N chain (one-based IDs 1..4)
	m := buildChain(t,
		[]libchem.Element{libchem.ElC, libchem.ElC, libchem.ElC, libchem.ElN},
		[][3]int{{1, 2, 1}, {2, 3, 1}, {3, 4, 3}})
	defer m.Reclaim()

	require.Equal(4, m.NumAtoms())
	require.Equal(3, m.NumBonds())
	require.Equal(1, m.NumFragments())

	// Drop the second carbon: the chain splits and survivors renumber densely
	m.RemoveAtoms([]int{1})

	require.Equal(3, m.NumAtoms())
	require.Equal(1, m.NumBonds(), "bonds touching a removed atom must cascade away")
	require.Equal(2, m.NumFragments())
	require.Equal(libchem.ElC, m.AtomAt(0).El)
	require.Equal(libchem.ElC, m.AtomAt(1).El)
	require.Equal(libchem.ElN, m.AtomAt(2).El)

	a, b := m.Bonds()[0].AtomIdx()
	require.Equal(1, a)
	require.Equal(2, b)

	// Removing everything leaves a valid empty molecule
	m.RemoveAtoms([]int{0, 1, 2})
	require.Equal(0, m.NumAtoms())
	require.Equal(0, m.NumBonds())
}

func TestFragmentBall(t *testing.T) {
	require := require.New(t)

	// Linear C1-C2-C3-C4-C5 plus a detached O
	m := buildChain(t,
		[]libchem.Element{libchem.ElC, libchem.ElC, libchem.ElC, libchem.ElC, libchem.ElC, libchem.ElO},
		[][3]int{{1, 2, 1}, {2, 3, 1}, {3, 4, 1}, {4, 5, 1}})
	defer m.Reclaim()

	require.ElementsMatch([]int{2}, m.FragmentBall(nil, 2, 0))
	require.ElementsMatch([]int{1, 2, 3}, m.FragmentBall(nil, 2, 1))
	require.ElementsMatch([]int{0, 1, 2, 3, 4}, m.FragmentBall(nil, 2, 2))

	// The ball never crosses into another fragment however large the radius
	require.ElementsMatch([]int{0, 1, 2, 3, 4}, m.FragmentBall(nil, 2, 100))
	require.ElementsMatch([]int{5}, m.FragmentBall(nil, 5, 100))
}

func TestConcatenate(t *testing.T) {
	require := require.New(t)

	m, err := libchem.NewMolFromNotation("CCO")
	require.NoError(err)
	defer m.Reclaim()
	n, err := libchem.NewMolFromNotation("N#C")
	require.NoError(err)
	defer n.Reclaim()

	m.Concatenate(n)
	require.Equal(5, m.NumAtoms())
	require.Equal(2, m.NumFragments())

	want, err := libchem.NewMolFromNotation("CCO.N#C")
	require.NoError(err)
	defer want.Reclaim()
	require.Equal(want.Signature(), m.Signature())
}

func TestAtomInvariantLocality(t *testing.T) {
	require := require.New(t)

	// Two structurally different molecules sharing a locally identical atom:
	// the terminal nitrile N sees (N, degree 1, charge 0, non-aromatic) in both.
	m1, err := libchem.NewMolFromNotation("CC#N")
	require.NoError(err)
	defer m1.Reclaim()
	m2, err := libchem.NewMolFromNotation("c1ccccc1CCCC#N")
	require.NoError(err)
	defer m2.Reclaim()

	require.Equal(m1.AtomInvariant(2), m2.AtomInvariant(m2.NumAtoms()-1))

	// Degree is part of the invariant, so the two carbons of CC#N differ
	require.NotEqual(m1.AtomInvariant(0), m1.AtomInvariant(1))
}

func TestSignaturePermutationInvariance(t *testing.T) {
	require := require.New(t)

	// Same labeled graph built under two different atom enumerations
	m1 := buildChain(t,
		[]libchem.Element{libchem.ElN, libchem.ElC, libchem.ElC},
		[][3]int{{1, 2, 3}, {2, 3, 1}})
	defer m1.Reclaim()
	m2 := buildChain(t,
		[]libchem.Element{libchem.ElC, libchem.ElC, libchem.ElN},
		[][3]int{{3, 2, 3}, {2, 1, 1}})
	defer m2.Reclaim()

	require.Equal(m1.Signature(), m2.Signature())

	parsed, err := libchem.NewMolFromNotation("N#CC")
	require.NoError(err)
	defer parsed.Reclaim()
	require.Equal(parsed.Signature(), m1.Signature())
}
