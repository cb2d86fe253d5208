package libchem_test

import (
	"errors"
	"testing"

	"github.com/psuresearch/Mapper/chem"
	"github.com/psuresearch/Mapper/libchem"
)

var roundTrips = []string{
	"C",
	"CCO",
	"CC(=O)CC(C)C(CC#N)C(=O)N",
	"CC(=O)CC(C)C(CC#N)C#N",
	"N#CC.C(=O)N",
	"C1CC1",
	"C1CCCCC1",
	"c1ccccc1",
	"c1ccc2ccccc2c1",
	"O=C(O)c1ccccc1",
	"[NH4+]",
	"[OH-]",
	"[13CH3]O",
	"[nH]1cccc1",
	"C(F)(Cl)Br",
	"O.O.O",
	"",
}

func TestNotationRoundTrip(t *testing.T) {
	for _, notation := range roundTrips {
		m, err := libchem.NewMolFromNotation(notation)
		if err != nil {
			t.Fatalf("%q: parse error: %v", notation, err)
		}

		m2, err := libchem.NewMolFromNotation(m.Notation())
		if err != nil {
			t.Fatalf("%q: reparse of %q failed: %v", notation, m.Notation(), err)
		}
		if m.Signature() != m2.Signature() {
			t.Fatalf("%q: round trip changed molecule:\n  wrote %q\n  sig   %q\n  resig %q",
				notation, m.Notation(), m.Signature(), m2.Signature())
		}
		m.Reclaim()
		m2.Reclaim()
	}
}

func TestBracketAtoms(t *testing.T) {
	m, err := libchem.NewMolFromNotation("[15NH4+]")
	if err != nil {
		t.Fatal(err)
	}
	defer m.Reclaim()

	a := m.AtomAt(0)
	if a.El != libchem.ElN || a.Isotope != 15 || a.HCount != 4 || a.Charge != 1 || a.Aromatic {
		t.Fatalf("bad bracket atom: %+v", a)
	}
}

func TestAromaticDefaults(t *testing.T) {
	m, err := libchem.NewMolFromNotation("c1ccccc1")
	if err != nil {
		t.Fatal(err)
	}
	defer m.Reclaim()

	if m.NumBonds() != 6 {
		t.Fatalf("expected 6 ring bonds, got %d", m.NumBonds())
	}
	for _, bond := range m.Bonds() {
		if bond.BondType() != libchem.AromaticBond {
			t.Fatal("bond between aromatic atoms should default to aromatic")
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		notation string
		want     error
	}{
		{"C1CC", chem.ErrRingBondOpen},
		{"[C+9]", chem.ErrBadCharge},
		{"[]", chem.ErrBadAtom},
		{"[Cx]", chem.ErrBadAtom},
	} {
		_, err := libchem.NewMolFromNotation(tc.notation)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.notation, tc.want, err)
		}
	}

	// Structurally malformed notation fails in the grammar itself
	for _, notation := range []string{"C(", "C)", "C((C)", "C..C", "Cq"} {
		if _, err := libchem.NewMolFromNotation(notation); err == nil {
			t.Fatalf("%q: expected parse failure", notation)
		}
	}
}
