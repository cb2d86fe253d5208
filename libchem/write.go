package libchem

import (
	"fmt"
	"io"
	"strings"
)

// Notation returns this molecule serialized back to notation form.
//
// The spelling is deterministic for a given atom enumeration (DFS from the
// lowest atom index of each fragment, neighbors in ascending order) but is
// not canonical across enumerations; compare molecules via Signature.
func (m *Mol) Notation() string {
	var b strings.Builder
	m.WriteAsNotation(&b)
	return b.String()
}

func (m *Mol) WriteAsNotation(out io.Writer) {
	w := notationWriter{
		mol:     m,
		adj:     m.typedAdjacency(),
		visited: make([]bool, m.NumAtoms()),
		rings:   map[uint32]int{},
	}

	// Pass 1: find the ring (back) edges under the same traversal order the
	// writer will use, so each gets a closure digit instead of a tree branch.
	for i := 0; i < m.NumAtoms(); i++ {
		if !w.visited[i] {
			w.findRings(i, -1)
		}
	}

	for i := range w.visited {
		w.visited[i] = false
	}
	first := true
	for i := 0; i < m.NumAtoms(); i++ {
		if w.visited[i] {
			continue
		}
		if !first {
			io.WriteString(out, ".")
		}
		first = false
		w.writeAtom(out, i, -1, NilBond)
	}
}

type typedNbr struct {
	idx int
	bt  BondType
}

func (m *Mol) typedAdjacency() [][]typedNbr {
	adj := make([][]typedNbr, m.NumAtoms())
	for _, bond := range m.bonds {
		a, b := bond.AtomIdx()
		bt := bond.BondType()
		adj[a] = append(adj[a], typedNbr{b, bt})
		adj[b] = append(adj[b], typedNbr{a, bt})
	}
	return adj
}

type notationWriter struct {
	mol     *Mol
	adj     [][]typedNbr
	visited []bool
	rings   map[uint32]int // pair key -> closure digit (0 until opened)
	inUse   [100]bool      // closure digits checked out
}

func pairKey(a, b int) uint32 {
	if a > b {
		a, b = b, a
	}
	return uint32(a)<<16 | uint32(b)
}

func (w *notationWriter) findRings(idx, parent int) {
	w.visited[idx] = true
	for _, n := range w.adj[idx] {
		if n.idx == parent {
			parent = -1 // skip the tree edge once; a parallel path back is a ring
			continue
		}
		if w.visited[n.idx] {
			w.rings[pairKey(idx, n.idx)] = 0
			continue
		}
		w.findRings(n.idx, idx)
	}
}

func (w *notationWriter) writeAtom(out io.Writer, idx, parent int, inBond BondType) {
	w.visited[idx] = true
	a := w.mol.AtomAt(idx)

	if inBond != NilBond {
		io.WriteString(out, w.bondToken(inBond, parent, idx))
	}
	io.WriteString(out, atomToken(a))

	var children []typedNbr
	for _, n := range w.adj[idx] {
		key := pairKey(idx, n.idx)
		if _, isRing := w.rings[key]; isRing {
			w.writeClosure(out, key, n.bt, idx, n.idx)
			continue
		}
		if !w.visited[n.idx] {
			children = append(children, n)
		}
	}

	for ci, n := range children {
		if ci < len(children)-1 {
			io.WriteString(out, "(")
			w.writeAtom(out, n.idx, idx, n.bt)
			io.WriteString(out, ")")
		} else {
			w.writeAtom(out, n.idx, idx, n.bt)
		}
	}
}

func (w *notationWriter) writeClosure(out io.Writer, key uint32, bt BondType, idx, other int) {
	digit := w.rings[key]
	if digit == 0 {

		// Opening end: check out the lowest free digit.
		for d := 1; d < len(w.inUse); d++ {
			if !w.inUse[d] {
				digit = d
				break
			}
		}
		w.inUse[digit] = true
		w.rings[key] = digit
	} else {

		// Closing end carries the bond symbol and releases the digit.
		io.WriteString(out, w.bondToken(bt, idx, other))
		w.inUse[digit] = false
		delete(w.rings, key)
	}

	if digit < 10 {
		fmt.Fprintf(out, "%d", digit)
	} else {
		fmt.Fprintf(out, "%%%02d", digit)
	}
}

// bondToken returns the symbol to emit for the bond between atoms a and b.
// Single bonds are implied; aromatic bonds are implied between two aromatic
// atoms.
func (w *notationWriter) bondToken(bt BondType, a, b int) string {
	bothAromatic := w.mol.AtomAt(a).Aromatic && w.mol.AtomAt(b).Aromatic
	switch bt {
	case SingleBond:
		if !bothAromatic {
			return "" // reparses as single
		}
	case AromaticBond:
		if bothAromatic {
			return "" // reparses as aromatic
		}
	}
	return bt.String()
}

func atomToken(a Atom) string {
	sym := a.El.String()
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}

	if a.Charge == 0 && a.Isotope == 0 && a.HCount < 0 && a.El.IsOrganicSubset() {
		return sym
	}

	var b strings.Builder
	b.WriteByte('[')
	if a.Isotope > 0 {
		fmt.Fprintf(&b, "%d", a.Isotope)
	}
	b.WriteString(sym)
	if a.HCount == 1 {
		b.WriteString("H")
	} else if a.HCount > 1 {
		fmt.Fprintf(&b, "H%d", a.HCount)
	}
	switch {
	case a.Charge == 1:
		b.WriteString("+")
	case a.Charge == -1:
		b.WriteString("-")
	case a.Charge > 1:
		fmt.Fprintf(&b, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&b, "-%d", -a.Charge)
	}
	b.WriteByte(']')
	return b.String()
}
