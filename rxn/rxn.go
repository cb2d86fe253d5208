// Package rxn extracts reaction cores: the atoms left over after iteratively
// deleting the largest common substructures shared by a reaction's reactant
// and product graphs (the Lynch-Willet procedure).
package rxn

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
	"github.com/psuresearch/Mapper/morgan"
)

var ErrNoConverge = errors.New("core extraction failed to converge")

// Stats reports what FindCore did.
type Stats struct {
	OuterIters   int  // substructure-removal iterations run
	RefineRounds int  // total EC refinement rounds across all iterations
	AtomsRemoved int  // atoms deleted from both graphs combined
	Stalled      bool // refinement hit its round ceiling at least once
}

// FindCore mutates reactant and product in place, deleting their common
// substructure until no EC value is shared between the two graphs.  What
// remains in each is that side's reaction core (possibly empty).
//
// Every iteration reseeds from the mutated graphs; no EC state survives a
// removal.  The iteration count is bounded by the total atom count, since
// every pass either deletes at least one atom or terminates.
func FindCore(reactant, product chem.Molecule) (Stats, error) {
	var stats Stats

	maxOuter := reactant.NumAtoms() + product.NumAtoms() + 2
	for {
		stats.OuterIters++
		if stats.OuterIters > maxOuter {
			return stats, errors.Wrapf(ErrNoConverge, "no progress after %d iterations", maxOuter)
		}
		if reactant.NumAtoms() == 0 || product.NumAtoms() == 0 {
			return stats, nil
		}

		rECs := morgan.Seed(reactant)
		pECs := morgan.Seed(product)

		// Refine while the two value sets still overlap, keeping the last
		// overlapping round: its common values locate the shared substructure
		// and its round index sets the deletion radius.
		prevR, prevP := rECs, pECs
		order := -1
		maxRounds := reactant.NumAtoms() + product.NumAtoms()
		stalled := false
		for rECs.Intersects(pECs) {
			prevR, prevP = rECs, pECs
			order++
			if order >= maxRounds {
				stalled = true
				break
			}
			var err error
			if rECs, err = morgan.Refine(reactant, rECs); err != nil {
				return stats, err
			}
			if pECs, err = morgan.Refine(product, pECs); err != nil {
				return stats, err
			}
			stats.RefineRounds++
		}

		if stalled {
			stats.Stalled = true
			if prevR.SetEqual(prevP) {

				// The graphs are EC-indistinguishable: everything is common
				// substructure and both sides erode completely.
				stats.AtomsRemoved += reactant.NumAtoms() + product.NumAtoms()
				removeAll(reactant)
				removeAll(product)
				continue
			}

			// The remaining overlap lives in fragments refinement can no
			// longer split; deleting them would eat into the core itself.
			return stats, nil
		}

		rMap := morgan.NewECMap(prevR)
		pMap := morgan.NewECMap(prevP)
		common := rMap.CommonECs(pMap)
		if len(common) == 0 {
			return stats, nil
		}

		radius := order
		if radius < 0 {
			radius = 0
		}
		rm := markCommon(reactant, rMap, common, radius)
		pm := markCommon(product, pMap, common, radius)
		stats.AtomsRemoved += len(rm) + len(pm)
		if len(rm) == 0 && len(pm) == 0 {
			return stats, nil
		}
		reactant.RemoveAtoms(rm)
		product.RemoveAtoms(pm)
	}
}

// markCommon collects the atoms holding a common EC value, closed to the ball
// of the given radius around each, deduplicated.
func markCommon(m chem.Molecule, em *morgan.ECMap, common []uint64, radius int) []int {
	marked := make([]bool, m.NumAtoms())
	var ball []int
	for _, ec := range common {
		for _, idx := range em.AtomsFor(ec) {
			ball = m.FragmentBall(ball[:0], idx, radius)
			for _, ai := range ball {
				marked[ai] = true
			}
		}
	}
	var idxs []int
	for i, hit := range marked {
		if hit {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func removeAll(m chem.Molecule) {
	idxs := make([]int, m.NumAtoms())
	for i := range idxs {
		idxs[i] = i
	}
	m.RemoveAtoms(idxs)
}

// Reaction pairs the two molecular graphs parsed from REACTANT>>PRODUCT
// notation and owns their lifetime.
type Reaction struct {
	Reactant *libchem.Mol
	Product  *libchem.Mol

	notation string
	stats    Stats
}

// NewReaction parses reaction notation of the form REACTANT>>PRODUCT.
// Either side may be empty.
func NewReaction(notation string) (*Reaction, error) {
	sides := strings.Split(notation, ">>")
	if len(sides) != 2 {
		return nil, errors.Wrapf(chem.ErrBadNotation, "expected exactly one '>>' in %q", notation)
	}

	reactant, err := libchem.NewMolFromNotation(sides[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid reactant notation")
	}
	product, err := libchem.NewMolFromNotation(sides[1])
	if err != nil {
		reactant.Reclaim()
		return nil, errors.Wrap(err, "invalid product notation")
	}

	return &Reaction{
		Reactant: reactant,
		Product:  product,
		notation: notation,
	}, nil
}

// Notation returns the notation this Reaction was parsed from.
func (rx *Reaction) Notation() string {
	return rx.notation
}

// FindCore reduces both sides of this reaction to their cores in place.
func (rx *Reaction) FindCore() error {
	stats, err := FindCore(rx.Reactant, rx.Product)
	rx.stats = stats
	return err
}

// CoreNotation serializes the residual graphs as REACTANT>>PRODUCT notation.
func (rx *Reaction) CoreNotation() string {
	var b strings.Builder
	rx.Reactant.WriteAsNotation(&b)
	b.WriteString(">>")
	rx.Product.WriteAsNotation(&b)
	return b.String()
}

func (rx *Reaction) Stats() Stats {
	return rx.stats
}

// LookupKey appends a catalog key identifying this reaction's pre-extraction
// EC state: per side, the atom count, the seed EC spectrum, and a NUL NUL
// terminator.  Reactions whose sides seed identically share a key.
//
// The key must be formed before FindCore mutates the graphs.
func (rx *Reaction) LookupKey(in []byte) []byte {
	key := in
	for _, m := range []*libchem.Mol{rx.Reactant, rx.Product} {
		key = append(key, byte(m.NumAtoms()>>8), byte(m.NumAtoms()))
		key = morgan.Seed(m).AppendECSpecTo(key)
		key = append(key, 0, 0)
	}
	return key
}

// Reclaim returns both Mols to the pool.  The Reaction must not be used
// afterward.
func (rx *Reaction) Reclaim() {
	if rx != nil {
		rx.Reactant.Reclaim()
		rx.Product.Reclaim()
		rx.Reactant, rx.Product = nil, nil
	}
}
