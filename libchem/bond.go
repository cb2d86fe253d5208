package libchem

import (
	"sort"

	"github.com/psuresearch/Mapper/chem"
)

// BondID contains two AtomIDs and a BondType:
// (BondType << 24) | (Aa << 12) | (Ab), where Aa < Ab
type BondID uint32

// BondType names the type (order) of a bond
type BondType byte

const (
	NilBond      BondType = 0
	SingleBond   BondType = 1
	DoubleBond   BondType = 2
	TripleBond   BondType = 3
	AromaticBond BondType = 4

	BondTypeToBondIDShift byte   = 2 * chem.AtomIDBits
	AtomIDMask            BondID = (1 << chem.AtomIDBits) - 1
)

// Order returns the integer bond order used when summing over an atom's bonds.
// Aromatic bonds count as order 1 for degree purposes.
func (bt BondType) Order() byte {
	return [...]byte{0, 1, 2, 3, 1}[bt]
}

func (bt BondType) String() string {
	return [...]string{" ", "-", "=", "#", ":"}[bt]
}

// FormBond forms a canonical BondID with the given BondType, Aa, and Ab.
func (bt BondType) FormBond(Aa, Ab AtomID) BondID {
	var bond BondID
	if Aa < Ab {
		bond = (BondID(Aa) << chem.AtomIDBits) | BondID(Ab)
	} else {
		bond = (BondID(Ab) << chem.AtomIDBits) | BondID(Aa)
	}
	if Aa < 1 || Ab < 1 || Aa > chem.MaxAtomID || Ab > chem.MaxAtomID || Aa == Ab {
		panic("invalid AtomIDs given to FormBond()")
	}
	bond |= BondID(bt) << BondTypeToBondIDShift
	return bond
}

func (bond BondID) BondType() BondType {
	return BondType(bond >> BondTypeToBondIDShift)
}

func (bond BondID) AtomAB() (a, b AtomID) {
	a = AtomID(bond>>chem.AtomIDBits) & AtomID(AtomIDMask)
	b = AtomID(bond) & AtomID(AtomIDMask)
	return
}

func (bond BondID) AtomIdx() (a, b int) {
	a = int((AtomID(bond>>chem.AtomIDBits) & AtomID(AtomIDMask)) - 1)
	b = int((AtomID(bond) & AtomID(AtomIDMask)) - 1)
	return
}

type BondList []BondID

func (bs BondList) Len() int           { return len(bs) }
func (bs BondList) Swap(i, j int)      { bs[i], bs[j] = bs[j], bs[i] }
func (bs BondList) Less(i, j int) bool { return bs[i] < bs[j] }

func (bs BondList) Canonicalize() {
	sort.Sort(bs)
}
