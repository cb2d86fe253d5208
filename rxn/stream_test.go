package rxn_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
	"github.com/psuresearch/Mapper/libchem/catalog"
	"github.com/psuresearch/Mapper/rxn"
)

func TestStreamPipeline(t *testing.T) {
	require := require.New(t)

	input := strings.Join([]string{
		"# nitrile formation",
		"CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C#N",
		"",
		"O=C=O>>N#N",
		"CC(=O)CC(C)C(CC#N)C(=O)N>>CC(=O)CC(C)C(CC#N)C#N", // duplicate
	}, "\n")

	ctx := chem.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, chem.CatalogOpts{}) // in-memory
	require.NoError(err)

	seen := libchem.NewNotationSet()
	defer seen.Close()

	var out strings.Builder
	count, err := rxn.StreamLines(strings.NewReader(input)).
		Dedupe(seen).
		ExtractCores(cat).
		Print(&out).
		PullAll()

	require.NoError(err)
	require.Equal(2, count, "comments, blanks, and duplicates are dropped")
	require.Equal(int64(2), cat.NumCores())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(lines, 2)
	require.Equal("O=C=O>>N#N,O=C=O>>N#N", lines[1], "disjoint reaction passes through whole")

	// A second pass over the same input must hit the catalog, not recompute:
	// the emitted cores are identical either way.
	seen2 := libchem.NewNotationSet()
	defer seen2.Close()

	var out2 strings.Builder
	_, err = rxn.StreamLines(strings.NewReader(input)).
		Dedupe(seen2).
		ExtractCores(cat).
		Print(&out2).
		PullAll()
	require.NoError(err)
	require.Equal(out.String(), out2.String())
	require.Equal(int64(2), cat.NumCores())

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

func TestStreamSurfacesParseErrors(t *testing.T) {
	require := require.New(t)

	count, err := rxn.StreamLines(strings.NewReader("C>>C\nnot a reaction\n")).
		ExtractCores(nil).
		PullAll()

	require.Error(err)
	require.Contains(err.Error(), "line 2")
	require.Equal(2, count)
}
