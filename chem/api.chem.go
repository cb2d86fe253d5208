package chem

const (
	// MaxAtomID is the max possible value of an AtomID (a one-based index).
	MaxAtomID = 4095

	// AtomIDBits is the number of bits dedicated for an AtomID.  It must be enough bits to represent MaxAtomID.
	AtomIDBits byte = 12
)

// Molecule is the narrow capability surface the core-extraction loop consumes.
//
// Atom indices are zero-based, stable, and contiguous only until the next
// RemoveAtoms call; any index-keyed data derived before a removal is invalid
// afterwards and must be rederived from the mutated molecule.
type Molecule interface {

	// NumAtoms returns the number of atoms currently in the molecule.
	NumAtoms() int

	// AtomInvariant returns a deterministic value derived purely from the
	// atom's local attributes (element, degree, formal charge, aromaticity).
	// It does not depend on the atom's index or on traversal order.
	AtomInvariant(idx int) uint64

	// Neighbors appends the indices of the atoms bonded to idx onto dst.
	Neighbors(dst []int, idx int) []int

	// FragmentBall appends onto dst every atom index reachable from idx
	// within the given number of bonds (idx itself included).
	FragmentBall(dst []int, idx, radius int) []int

	// RemoveAtoms deletes the given atoms and all incident bonds.
	// The remaining atoms are densely renumbered.
	RemoveAtoms(idxs []int)
}

// OnCoreHit is a callback channel used to return stored cores during catalog
// enumeration.
type OnCoreHit chan<- string

// CatalogOpts specifies params for opening a core catalog.
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// CoreCatalog wraps a database of previously extracted reaction cores,
// keyed by the lookup key formed from a reaction's round-zero EC spectra.
type CoreCatalog interface {

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumCores returns the number of cores stored in this catalog.
	NumCores() int64

	// TryAddCore stores the extracted core for the given reaction key.
	// If true is returned, the key did not exist and was added.
	TryAddCore(key []byte, core string) bool

	// LookupCore returns the stored core for the given reaction key.
	LookupCore(key []byte) (core string, found bool)

	// SelectAll sends every stored core to onHit in key order, then returns.
	SelectAll(onHit OnCoreHit)

	Close() error
}

// CatalogContext is a container for open / active CoreCatalog instances.
type CatalogContext interface {

	// Attaches the given catalog to this context.
	AttachCatalog(cat CoreCatalog)

	// Detaches the given catalog from this context.
	DetachCatalog(cat CoreCatalog)

	// Closing signals that Close() has been called.
	Closing() <-chan struct{}

	// Signals all open catalogs to close, then closes.
	Close()

	// Signals when Close() completed and all open catalogs have been closed.
	Done() <-chan struct{}
}
