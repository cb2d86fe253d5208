package rxn_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
	"github.com/psuresearch/Mapper/morgan"
	"github.com/psuresearch/Mapper/rxn"
)

func sig(t *testing.T, notation string) string {
	m, err := libchem.NewMolFromNotation(notation)
	require.NoError(t, err)
	defer m.Reclaim()
	return m.Signature()
}

func extract(t *testing.T, notation string) (*rxn.Reaction, rxn.Stats) {
	rx, err := rxn.NewReaction(notation)
	require.NoError(t, err)
	t.Cleanup(rx.Reclaim)
	require.NoError(t, rx.FindCore())
	return rx, rx.Stats()
}

func TestNitrileFormationCore(t *testing.T) {
	require := require.New(t)

	// Amide dehydration to nitrile: the shared methyl-ketone scaffold strips
	// away, leaving each side's nitrile fragment plus the changed group.
	rx, stats := extract(t, "CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C#N")

	require.Equal(sig(t, "N#CC.C(=O)N"), rx.Reactant.Signature())
	require.Equal(sig(t, "N#CC.N#C"), rx.Product.Signature())
	require.Greater(stats.AtomsRemoved, 0)
	require.LessOrEqual(stats.OuterIters, 25+2)
}

func TestIdenticalGraphsErodeCompletely(t *testing.T) {
	require := require.New(t)

	rx, _ := extract(t, "CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C(=O)N")

	require.Equal(0, rx.Reactant.NumAtoms())
	require.Equal(0, rx.Product.NumAtoms())
	require.Equal(">>", rx.CoreNotation())
}

func TestDisjointGraphsUnchanged(t *testing.T) {
	require := require.New(t)

	// No EC value is ever shared, so the first iteration terminates with
	// both graphs intact.
	rx, stats := extract(t, "O=C=O>>N#N")

	require.Equal(sig(t, "O=C=O"), rx.Reactant.Signature())
	require.Equal(sig(t, "N#N"), rx.Product.Signature())
	require.Equal(1, stats.OuterIters)
	require.Equal(0, stats.AtomsRemoved)
}

func TestEmptySides(t *testing.T) {
	require := require.New(t)

	rx, stats := extract(t, ">>CCO")
	require.Equal(0, rx.Reactant.NumAtoms())
	require.Equal(3, rx.Product.NumAtoms())
	require.Equal(1, stats.OuterIters)

	rx2, _ := extract(t, ">>")
	require.Equal(">>", rx2.CoreNotation())
}

func TestIsolatedAtoms(t *testing.T) {
	require := require.New(t)

	// Bare atoms never refine apart; the EC-indistinguishable rule erases them.
	rx, stats := extract(t, "C.C>>C")
	require.Equal(0, rx.Reactant.NumAtoms())
	require.Equal(0, rx.Product.NumAtoms())
	require.True(stats.Stalled)
}

func TestAdversarialChainsTerminate(t *testing.T) {
	require := require.New(t)

	r := strings.Repeat("C", 20)
	p := strings.Repeat("C", 18) + "N"
	rx, stats := extract(t, r+">>"+p)
	require.LessOrEqual(stats.OuterIters, 20+19+2)

	// Unless the stall rule ended the loop, no seed EC value may be shared
	// between the residues.
	if !stats.Stalled {
		require.False(morgan.Seed(rx.Reactant).Intersects(morgan.Seed(rx.Product)))
	}
}

func TestFindCoreIsDeterministic(t *testing.T) {
	require := require.New(t)

	const notation = "CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C#N"

	first, _ := extract(t, notation)
	firstR, firstP := first.Reactant.Signature(), first.Product.Signature()

	for i := 0; i < 5; i++ {
		rx, _ := extract(t, notation)
		require.Equal(firstR, rx.Reactant.Signature())
		require.Equal(firstP, rx.Product.Signature())
	}
}

func TestPermutedEnumerationSameCore(t *testing.T) {
	require := require.New(t)

	// The same reactant molecule written under two different traversals
	reordered := "NC(=O)C(CC#N)C(C)CC(C)=O"
	require.Equal(sig(t, "CC(=O)CC(C)C(CC#N)C(=O)N"), sig(t, reordered))

	rx1, _ := extract(t, "CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C#N")
	rx2, _ := extract(t, reordered+">>CC(=O)CC(C)C(CC#N)C#N")

	require.Equal(rx1.Reactant.Signature(), rx2.Reactant.Signature())
	require.Equal(rx1.Product.Signature(), rx2.Product.Signature())
}

func TestNewReactionErrors(t *testing.T) {
	require := require.New(t)

	_, err := rxn.NewReaction("CCO")
	require.ErrorIs(err, chem.ErrBadNotation)

	_, err = rxn.NewReaction("C>>C>>C")
	require.ErrorIs(err, chem.ErrBadNotation)

	_, err = rxn.NewReaction("C1C>>C")
	require.ErrorIs(err, chem.ErrRingBondOpen)
	require.Contains(err.Error(), "reactant")

	_, err = rxn.NewReaction("C>>[Zz]")
	require.Error(err)
	require.Contains(err.Error(), "product")
}
