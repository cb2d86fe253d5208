package chem

import "errors"

// Errors
var (
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrECsOutOfSync    = errors.New("EC sequence out of sync with molecule")
	ErrBadNotation     = errors.New("bad molecule notation")
	ErrBadAtom         = errors.New("bad atom")
	ErrBadCharge       = errors.New("bad formal charge")
	ErrBadBond         = errors.New("bad bond")
	ErrBadBondType     = errors.New("bad bond type")
	ErrRingBondOpen    = errors.New("unclosed ring bond")
)
