package storage

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/orneryd/graphdb"
)

// BadgerOptions configures the disk-backed datastore.
type BadgerOptions struct {
	// DataDir is the directory for storing data files. Required unless
	// InMemory is set.
	DataDir string

	// InMemory runs BadgerDB in memory-only mode. Useful for exercising
	// the disk-backed code path in tests without touching disk.
	InMemory bool

	// SyncWrites forces fsync after each write. Slower but more durable.
	SyncWrites bool

	// Logger for BadgerDB's internal logging. Nil silences it.
	Logger badger.Logger
}

// BadgerDatastore is a disk-backed graphdb.Datastore satisfying the same
// contract as MemoryDatastore: vertex ids, adjacency ordering, property
// semantics, and cascade-on-delete behave identically, so a query composed
// against one behaves identically against the other. State that the
// in-memory engine keeps as Go maps and red-black trees is instead encoded
// into lexicographically ordered keys (see badger_keys.go) so BadgerDB's
// own sorted-key iterator does the ordering work.
type BadgerDatastore struct {
	db *badger.DB
	mu sync.RWMutex // serializes graphdb.Transaction calls; Badger's own txn gives per-call ACID, this gives spec's single-writer-at-a-time policy

	// Logger receives operational diagnostics (transaction opens). Separate
	// from BadgerOptions.Logger, which configures BadgerDB's own internal
	// logging. Defaults to a logger writing to stderr.
	Logger *log.Logger
}

// NewBadgerDatastore opens (or creates) a disk-backed datastore at dataDir.
func NewBadgerDatastore(dataDir string) (*BadgerDatastore, error) {
	return NewBadgerDatastoreWithOptions(BadgerOptions{DataDir: dataDir})
}

// NewBadgerDatastoreWithOptions opens a disk-backed datastore with custom
// configuration.
func NewBadgerDatastoreWithOptions(opts BadgerOptions) (*BadgerDatastore, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}
	badgerOpts = badgerOpts.WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, wrapBackendError(err, "open badger datastore")
	}
	return &BadgerDatastore{db: db, Logger: log.New(os.Stderr, "graphdb: ", log.LstdFlags)}, nil
}

// Close releases the underlying BadgerDB handle.
func (ds *BadgerDatastore) Close() error {
	return ds.db.Close()
}

// Transaction opens a new Transaction against ds.
func (ds *BadgerDatastore) Transaction() (graphdb.Transaction, error) {
	id := uuid.NewString()
	if ds.Logger != nil {
		ds.Logger.Printf("transaction %s opened", id)
	}
	return &BadgerTransaction{ds: ds, id: id}, nil
}

func wrapBackendError(cause error, op string) error {
	return &graphdb.Error{Kind: graphdb.ErrorKindBackendError, Message: fmt.Sprintf("badger: %s", op), Cause: cause}
}

func wrapSerializationError(cause error, op string) error {
	return &graphdb.Error{Kind: graphdb.ErrorKindSerializationError, Message: fmt.Sprintf("badger: %s", op), Cause: cause}
}

// readCounter reads an 8-byte big-endian counter stored at metaKey(name),
// defaulting to 0 if absent.
func readCounter(txn *badger.Txn, name string) (uint64, error) {
	item, err := txn.Get(metaKey(name))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, wrapBackendError(err, "read counter "+name)
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		v = binary.BigEndian.Uint64(val)
		return nil
	})
	if err != nil {
		return 0, wrapBackendError(err, "read counter "+name)
	}
	return v, nil
}

func writeCounter(txn *badger.Txn, name string, v uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return txn.Set(metaKey(name), buf)
}
