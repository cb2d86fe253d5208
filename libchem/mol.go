package libchem

import (
	"sort"
	"strings"
	"sync"

	"github.com/psuresearch/Mapper/chem"
)

func NewMol(src *Mol) *Mol {
	m := molPool.Get().(*Mol)
	m.Init(src)
	return m
}

func NewMolFromNotation(notation string) (*Mol, error) {
	m := molPool.Get().(*Mol)
	err := m.InitFromNotation(notation)
	if err != nil {
		m.Reclaim()
		return nil, err
	}
	return m, nil
}

// Mol is a mutable molecular graph: a slice of atoms plus a canonical bond
// list.  Atom indices are zero-based and stay stable and contiguous between
// mutations; RemoveAtoms renumbers densely and invalidates any index-keyed
// state derived earlier.
type Mol struct {
	atoms     []Atom
	bonds     BondList
	fragCount int32
	adj       [][]int
	adjDirty  bool
}

func (m *Mol) Atoms() []Atom {
	return m.atoms
}

func (m *Mol) Bonds() BondList {
	return m.bonds
}

func (m *Mol) NumAtoms() int {
	return len(m.atoms)
}

func (m *Mol) NumBonds() int {
	return len(m.bonds)
}

func (m *Mol) AtomAt(idx int) Atom {
	return m.atoms[idx]
}

func (m *Mol) Init(src *Mol) {
	if m == src {
		return
	}

	m.onMolChanged()

	if src == nil {
		m.atoms = m.atoms[:0]
		m.bonds = m.bonds[:0]
		return
	}
	m.fragCount = src.fragCount
	m.atoms = append(m.atoms[:0], src.atoms...)
	m.bonds = append(m.bonds[:0], src.bonds...)
}

// AddAtom appends an atom and returns its one-based AtomID.
func (m *Mol) AddAtom(a Atom) AtomID {
	m.atoms = append(m.atoms, a)
	m.onMolChanged()
	return AtomID(len(m.atoms))
}

// AddBond bonds two existing atoms (one-based IDs).
func (m *Mol) AddBond(bt BondType, a, b AtomID) error {
	if int(a) > len(m.atoms) || int(b) > len(m.atoms) || a < 1 || b < 1 || a == b {
		return chem.ErrBadBond
	}
	if bt == NilBond || bt > AromaticBond {
		return chem.ErrBadBondType
	}
	m.bonds = append(m.bonds, bt.FormBond(a, b))
	m.bonds.Canonicalize()
	m.onMolChanged()
	return nil
}

// AtomInvariant returns the round-zero EC value for the atom at idx, formed
// purely from local attributes:
//
//	Z << 9 | degree << 5 | (charge + 8) << 1 | aromatic
func (m *Mol) AtomInvariant(idx int) uint64 {
	a := m.atoms[idx]
	v := uint64(a.El.AtomicNumber()) << 9
	v |= uint64(m.Degree(idx)&0xF) << 5
	v |= (uint64(int(a.Charge)+8) & 0xF) << 1
	v |= uint64(boolBit(a.Aromatic))
	return v
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (m *Mol) Degree(idx int) int {
	return len(m.adjacency()[idx])
}

// Neighbors appends the indices of the atoms bonded to idx onto dst.
func (m *Mol) Neighbors(dst []int, idx int) []int {
	return append(dst, m.adjacency()[idx]...)
}

func (m *Mol) adjacency() [][]int {
	if !m.adjDirty {
		return m.adj
	}

	Na := len(m.atoms)
	if cap(m.adj) < Na {
		m.adj = make([][]int, Na)
	} else {
		m.adj = m.adj[:Na]
	}
	for i := range m.adj {
		m.adj[i] = m.adj[i][:0]
	}
	for _, bond := range m.bonds {
		a, b := bond.AtomIdx()
		m.adj[a] = append(m.adj[a], b)
		m.adj[b] = append(m.adj[b], a)
	}
	for i := range m.adj {
		sort.Ints(m.adj[i])
	}
	m.adjDirty = false
	return m.adj
}

// NumFragments returns the number of connected components in this molecule.
func (m *Mol) NumFragments() int {
	if m.fragCount > 0 {
		return int(m.fragCount)
	}
	frag := m.fragmentIDs()

	// The number of unique labels is the number of fragments.
	count := int32(0)
	seen := make(map[int]struct{}, 4)
	for _, fi := range frag {
		if _, ok := seen[fi]; !ok {
			seen[fi] = struct{}{}
			count++
		}
	}

	m.fragCount = count
	return int(m.fragCount)
}

// fragmentIDs labels each atom with a fragment representative.  Start by
// assuming each atom is its own fragment; each bond then propagates
// connectedness down to the lower label.
func (m *Mol) fragmentIDs() []int {
	Na := len(m.atoms)
	frag := make([]int, Na)
	for i := range frag {
		frag[i] = i
	}
	for _, bond := range m.bonds {
		a, b := bond.AtomIdx()
		lo, hi := frag[a], frag[b]
		if lo == hi {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		for i, fi := range frag {
			if fi == hi {
				frag[i] = lo
			}
		}
	}
	return frag
}

// FragmentBall appends onto dst every atom index within the given number of
// bonds of idx, idx itself included.
func (m *Mol) FragmentBall(dst []int, idx, radius int) []int {
	adj := m.adjacency()

	dist := make(map[int]int, 8)
	dist[idx] = 0
	queue := []int{idx}
	dst = append(dst, idx)

	for len(queue) > 0 {
		ai := queue[0]
		queue = queue[1:]
		if dist[ai] == radius {
			continue
		}
		for _, ni := range adj[ai] {
			if _, seen := dist[ni]; seen {
				continue
			}
			dist[ni] = dist[ai] + 1
			queue = append(queue, ni)
			dst = append(dst, ni)
		}
	}
	return dst
}

// RemoveAtoms deletes the given atoms and every bond touching them, then
// renumbers the remaining atoms densely, preserving their relative order.
// Duplicate and out-of-range indices are ignored.
func (m *Mol) RemoveAtoms(idxs []int) {
	if len(idxs) == 0 {
		return
	}

	Na := len(m.atoms)
	drop := make([]bool, Na)
	for _, i := range idxs {
		if i >= 0 && i < Na {
			drop[i] = true
		}
	}

	// Old one-based AtomID -> new one-based AtomID (0 when dropped)
	remap := make([]AtomID, Na+1)
	next := AtomID(0)
	keptAtoms := m.atoms[:0]
	for i, a := range m.atoms {
		if drop[i] {
			continue
		}
		next++
		remap[i+1] = next
		keptAtoms = append(keptAtoms, a)
	}
	m.atoms = keptAtoms

	keptBonds := m.bonds[:0]
	for _, bond := range m.bonds {
		a, b := bond.AtomAB()
		na, nb := remap[a], remap[b]
		if na == 0 || nb == 0 {
			continue
		}
		keptBonds = append(keptBonds, bond.BondType().FormBond(na, nb))
	}
	m.bonds = keptBonds
	m.bonds.Canonicalize()

	m.onMolChanged()
}

// Concatenate appends src as additional (disjoint) fragments of this molecule.
func (m *Mol) Concatenate(src *Mol) {
	a0 := AtomID(len(m.atoms))
	m.atoms = append(m.atoms, src.atoms...)

	for _, bond := range src.bonds {
		a, b := bond.AtomAB()
		m.bonds = append(m.bonds, bond.BondType().FormBond(a+a0, b+a0))
	}
	m.bonds.Canonicalize()

	m.onMolChanged()
}

func (m *Mol) onMolChanged() {

	// Reset generated info since the molecule changed
	m.fragCount = 0
	m.adjDirty = true
}

// Signature returns a string identifying this molecule up to fragment order
// and atom enumeration: per fragment, the sorted element symbols (charge and
// aromaticity annotated) and sorted bond tokens, fragments sorted.  Two Mols
// holding the same multiset of labeled fragments produce the same Signature.
func (m *Mol) Signature() string {
	frag := m.fragmentIDs()

	parts := make(map[int]*fragSig)
	sigFor := func(fi int) *fragSig {
		fs := parts[fi]
		if fs == nil {
			fs = &fragSig{}
			parts[fi] = fs
		}
		return fs
	}

	for i, a := range m.atoms {
		sym := a.El.String()
		if a.Aromatic {
			sym = strings.ToLower(sym)
		}
		if a.Charge > 0 {
			sym += "+"
		} else if a.Charge < 0 {
			sym += "-"
		}
		sigFor(frag[i]).atoms = append(sigFor(frag[i]).atoms, sym)
	}
	for _, bond := range m.bonds {
		a, _ := bond.AtomIdx()
		sigFor(frag[a]).bonds = append(sigFor(frag[a]).bonds, bond.BondType().String())
	}

	sigs := make([]string, 0, len(parts))
	for _, fs := range parts {
		sort.Strings(fs.atoms)
		sort.Strings(fs.bonds)
		sigs = append(sigs, strings.Join(fs.atoms, "")+"|"+strings.Join(fs.bonds, ""))
	}
	sort.Strings(sigs)
	return strings.Join(sigs, ".")
}

type fragSig struct {
	atoms []string
	bonds []string
}

func (m *Mol) Reclaim() {
	if m != nil {
		molPool.Put(m)
	}
}

var molPool = sync.Pool{
	New: func() interface{} {
		return new(Mol)
	},
}
