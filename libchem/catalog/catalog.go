// Package catalog persists extracted reaction cores in a badger db, keyed by
// the reactions' pre-extraction EC spectra, so equivalent reactions skip the
// extraction loop entirely on later runs.
package catalog

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/psuresearch/Mapper/chem"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState (varint MajorVers, MinorVers, NumCores)

	LookupKey => core notation (UTF-8)
		where LookupKey := per reaction side: Nv (2 bytes) + ECSpec + NUL NUL

The LookupKey sorts by reactant atom count first, so iterating the db visits
small reactions before large ones.

***/

var gCatalogStateKey = []byte{0x00, 0x00, 0x01}

const (
	catMajorVers = 2026
	catMinorVers = 1
)

type catalogState struct {
	MajorVers int64
	MinorVers int64
	NumCores  int64
}

func (state *catalogState) Marshal(in []byte) []byte {
	var scrap [binary.MaxVarintLen64]byte
	out := in
	for _, v := range [...]int64{state.MajorVers, state.MinorVers, state.NumCores} {
		n := binary.PutVarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	return out
}

func (state *catalogState) Unmarshal(val []byte) error {
	for _, dst := range [...]*int64{&state.MajorVers, &state.MinorVers, &state.NumCores} {
		v, n := binary.Varint(val)
		if n <= 0 {
			return chem.ErrUnmarshal
		}
		*dst = v
		val = val[n:]
	}
	return nil
}

type catalog struct {
	ctx        chem.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

func OpenCatalog(ctx chem.CatalogContext, opts chem.CatalogOpts) (chem.CoreCatalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(chem.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = catMajorVers
		cat.state.MinorVers = catMinorVers
	}

	if err == nil && (cat.state.MajorVers != catMajorVers || cat.state.MinorVers != catMinorVers) {
		err = errors.New("catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			var stateBuf [24]byte
			return txn.Set(gCatalogStateKey, cat.state.Marshal(stateBuf[:0]))
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumCores() int64 {
	return cat.state.NumCores
}

// TryAddCore stores the extracted core for the given reaction key if the key
// is not already present.
func (cat *catalog) TryAddCore(key []byte, core string) bool {
	if cat.readOnly || len(key) == 0 {
		return false
	}

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	if err = txn.Set(key, []byte(core)); err != nil {
		panic(err)
	}
	if err = txn.Commit(); err != nil {
		panic(err)
	}

	cat.state.NumCores++
	cat.stateDirty = true
	return true
}

func (cat *catalog) LookupCore(key []byte) (core string, found bool) {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			core = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return "", false
	}
	if err != nil {
		panic(err)
	}
	return core, true
}

// SelectAll walks the whole db in key order (small reactions first) and sends
// each stored core notation to onHit.
func (cat *catalog) SelectAll(onHit chem.OnCoreHit) {
	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if bytes.Equal(item.Key(), gCatalogStateKey) {
			continue
		}
		err := item.Value(func(val []byte) error {
			onHit <- string(val)
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}
