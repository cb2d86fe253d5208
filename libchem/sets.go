package libchem

import "github.com/dgraph-io/badger/v3"

// NotationSet allows adding reaction or molecule notations and returning
// whether an identical notation has already been added.  It is used to dedupe
// batch input before any parsing happens.
type NotationSet interface {

	// TryAdd adds the given notation if it is not already present.
	//
	// If notation is already in this NotationSet, false is returned and this call has no effect.
	// If notation isn't in this NotationSet, it is added and true is returned.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(notation string) bool

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAdd(), be sure you call Close() when you're done.
	Close()
}

func NewNotationSet() NotationSet {
	return &notationSet{}
}

type notationSet struct {
	lsmSet
}

func (ns *notationSet) TryAdd(notation string) bool {
	return ns.tryAdd([]byte(notation))
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
