package libchem

// AtomID is a one-based index that identifies an atom in a given molecule (1..MaxAtomID)
type AtomID uint16

// Element identifies the chemical element of an atom, restricted to the
// organic subset this notation supports (plus a wildcard).
type Element byte

const (
	ElNil  Element = 0
	ElH    Element = 1
	ElB    Element = 2
	ElC    Element = 3
	ElN    Element = 4
	ElO    Element = 5
	ElF    Element = 6
	ElP    Element = 7
	ElS    Element = 8
	ElCl   Element = 9
	ElBr   Element = 10
	ElI    Element = 11
	ElWild Element = 12
)

var AllElements = [...]Element{
	ElH,
	ElB, ElC, ElN, ElO, ElF,
	ElP, ElS, ElCl,
	ElBr, ElI,
	ElWild,
}

func (el Element) Ord() byte {
	return byte(el)
}

func (el Element) String() string {
	return [...]string{"nil",
		"H",
		"B", "C", "N", "O", "F",
		"P", "S", "Cl",
		"Br", "I",
		"*",
	}[el]
}

// AtomicNumber returns the proton count of the element (0 for nil and wildcard).
func (el Element) AtomicNumber() byte {
	return [...]byte{0, 1, 5, 6, 7, 8, 9, 15, 16, 17, 35, 53, 0}[el]
}

// CanBeAromatic returns true if the element may appear lowercase in notation.
func (el Element) CanBeAromatic() bool {
	return [...]bool{false, false, true, true, true, true, false, true, true, false, false, false, false}[el]
}

// IsOrganicSubset returns true if the element may appear outside brackets.
func (el Element) IsOrganicSubset() bool {
	return [...]bool{false, false, true, true, true, true, true, true, true, true, true, true, false}[el]
}

// ElementForSymbol returns the Element whose symbol matches sym.
//
// If sym is unrecognized, ElNil is returned.
func ElementForSymbol(sym string) Element {
	for _, el := range AllElements {
		if el.String() == sym {
			return el
		}
	}
	return ElNil
}

// Atom is a single node of a Mol: an element plus the local attributes that
// feed the atom invariant.
type Atom struct {
	El       Element
	Charge   int8  // formal charge
	Aromatic bool  // part of an aromatic system
	HCount   int8  // explicit H count from brackets; -1 when implicit
	Isotope  int16 // 0 when unspecified
}
