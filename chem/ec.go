package chem

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

// ECSeq is a sequence of extended-connectivity (EC) values, one per atom,
// computed for a single (molecule state, refinement round) pair.
//
// Values are unsigned and combine by addition, so an ECSeq is never negative
// and is invariant under neighbor traversal order.  An ECSeq must be
// discarded whenever its molecule is mutated.
type ECSeq []uint64

// ECSpec is a canonical binary encoding of an ECSeq value set: a uvarint
// element count followed by the values sorted ascending, each as a uvarint.
type ECSpec []byte

// Intersects returns true if the two sequences share at least one EC value.
func (ecs ECSeq) Intersects(other ECSeq) bool {
	if len(ecs) == 0 || len(other) == 0 {
		return false
	}
	seen := make(map[uint64]struct{}, len(ecs))
	for _, v := range ecs {
		seen[v] = struct{}{}
	}
	for _, v := range other {
		if _, ok := seen[v]; ok {
			return true
		}
	}
	return false
}

// SetEqual returns true if the two sequences hold exactly the same set of
// EC values (multiplicities are not compared).
func (ecs ECSeq) SetEqual(other ECSeq) bool {
	a := make(map[uint64]struct{}, len(ecs))
	for _, v := range ecs {
		a[v] = struct{}{}
	}
	b := make(map[uint64]struct{}, len(other))
	for _, v := range other {
		b[v] = struct{}{}
	}
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

func (ecs *ECSeq) SetLen(n int) {
	if cap(*ecs) < n {
		dim := n
		if dim < 16 {
			dim = 16 // prevent rapid resizing
		}
		*ecs = make(ECSeq, n, dim)
	} else {
		*ecs = (*ecs)[:n]
	}
}

// AppendECSpecTo appends the canonical binary encoding of this sequence's
// value set to out, returning it as an ECSpec.
func (ecs ECSeq) AppendECSpecTo(out []byte) ECSpec {
	var scrap [binary.MaxVarintLen64]byte

	sorted := make([]uint64, len(ecs))
	copy(sorted, ecs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := binary.PutUvarint(scrap[:], uint64(len(sorted)))
	out = append(out, scrap[:n]...)
	for _, v := range sorted {
		n = binary.PutUvarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	return out
}

// InitFromECSpec assigns this ECSeq from an encoding made by AppendECSpecTo.
func (ecs *ECSeq) InitFromECSpec(spec ECSpec) error {
	rdr := bytes.NewReader(spec)

	count, err := binary.ReadUvarint(rdr)
	if err != nil || count > uint64(rdr.Len()) {
		return ErrUnmarshal
	}
	ecs.SetLen(int(count))
	for i := range *ecs {
		v, err := binary.ReadUvarint(rdr)
		if err != nil {
			if err == io.EOF {
				err = ErrUnmarshal
			}
			return err
		}
		(*ecs)[i] = v
	}
	return nil
}
