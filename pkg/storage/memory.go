// Package storage provides the concrete graphdb.Datastore implementations:
// MemoryDatastore, an in-memory reference engine, and BadgerDatastore, an
// optional disk-backed engine satisfying the identical contract.
//
// Both back onto the same query evaluator (evaluator.go) through the
// unexported storageReader interface, so a query composed against one
// behaves identically against the other.
package storage

import (
	"log"
	"os"
	"sort"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/google/uuid"

	"github.com/orneryd/graphdb"
)

// adjKey is the composite key of one adjacency-index row: the vertex the
// index is keyed by, the edge's creation timestamp, the vertex on the
// other side of the edge, and the edge's type. Ordering primarily by
// (VertexID, TS) lets a single ascending scan of a vertex's key range
// yield its edges in creation order with no further sort — reversed, that
// scan is exactly the descending-timestamp order the query evaluator
// requires for EdgeQuery::Pipe (spec §4.5). OtherID/Type break ties
// between edges created in the same tick without needing them to be part
// of the primary order.
type adjKey struct {
	VertexID uint64
	TS       int64
	OtherID  uint64
	Type     string
}

func compareAdjKey(a, b interface{}) int {
	ak, bk := a.(adjKey), b.(adjKey)
	if c := utils.UInt64Comparator(ak.VertexID, bk.VertexID); c != 0 {
		return c
	}
	if c := utils.Int64Comparator(ak.TS, bk.TS); c != 0 {
		return c
	}
	if c := utils.UInt64Comparator(ak.OtherID, bk.OtherID); c != 0 {
		return c
	}
	return utils.StringComparator(ak.Type, bk.Type)
}

// MemoryDatastore is the reference in-memory implementation of
// graphdb.Datastore: a vertex table plus two ordered adjacency indexes
// (outbound and inbound), each an emirpasic/gods red-black tree keyed for
// ordered prefix scans, and two property tables. All state is guarded by
// a single RWMutex: readers run concurrently with each other, writers run
// exclusively, and every Transaction method is observed atomically by
// other transactions (spec §5).
type MemoryDatastore struct {
	mu sync.RWMutex

	nextVertexID uint64
	nextTS       int64

	vertices *treemap.Map // uint64 -> graphdb.Identifier
	outbound *treemap.Map // adjKey -> struct{}, keyed by outbound vertex
	inbound  *treemap.Map // adjKey -> struct{}, keyed by inbound vertex

	vertexProps map[uint64]map[string]graphdb.Json
	edgeProps   map[graphdb.Edge]map[string]graphdb.Json

	// Logger receives operational diagnostics (one line per transaction
	// opened). Defaults to a logger writing to stderr; set to
	// log.New(io.Discard, "", 0) to silence it.
	Logger *log.Logger
}

// NewMemoryDatastore constructs an empty in-memory datastore.
func NewMemoryDatastore() *MemoryDatastore {
	return &MemoryDatastore{
		vertices:    treemap.NewWith(utils.UInt64Comparator),
		outbound:    treemap.NewWith(compareAdjKey),
		inbound:     treemap.NewWith(compareAdjKey),
		vertexProps: make(map[uint64]map[string]graphdb.Json),
		edgeProps:   make(map[graphdb.Edge]map[string]graphdb.Json),
		Logger:      log.New(os.Stderr, "graphdb: ", log.LstdFlags),
	}
}

// Transaction opens a new Transaction against ds. Every call the returned
// Transaction receives applies directly against ds's state under ds.mu;
// there is no buffering (see memory_transaction.go).
func (ds *MemoryDatastore) Transaction() (graphdb.Transaction, error) {
	id := uuid.NewString()
	if ds.Logger != nil {
		ds.Logger.Printf("transaction %s opened", id)
	}
	return &MemoryTransaction{ds: ds, id: id}, nil
}

// --- storageReader, implemented directly on MemoryDatastore; callers must
// already hold ds.mu (read or write) before invoking these. ---

func (ds *MemoryDatastore) vertexType(id uint64) (graphdb.Identifier, bool) {
	v, ok := ds.vertices.Get(id)
	if !ok {
		return graphdb.Identifier{}, false
	}
	return v.(graphdb.Identifier), true
}

func (ds *MemoryDatastore) vertexIDsFrom(start uint64) []uint64 {
	keys := ds.vertices.Keys()
	lo := sort.Search(len(keys), func(i int) bool {
		return keys[i].(uint64) >= start
	})
	out := make([]uint64, 0, len(keys)-lo)
	for _, k := range keys[lo:] {
		out = append(out, k.(uint64))
	}
	return out
}

func (ds *MemoryDatastore) scanAdjacencyDesc(vertexID uint64, dir graphdb.EdgeDirection) []adjacencyEntry {
	idx := ds.outbound
	if dir == graphdb.Inbound {
		idx = ds.inbound
	}
	keys := idx.Keys()
	lo := sort.Search(len(keys), func(i int) bool {
		return keys[i].(adjKey).VertexID >= vertexID
	})
	hi := sort.Search(len(keys), func(i int) bool {
		return keys[i].(adjKey).VertexID > vertexID
	})
	out := make([]adjacencyEntry, 0, hi-lo)
	for i := hi - 1; i >= lo; i-- {
		k := keys[i].(adjKey)
		out = append(out, adjacencyEntry{OtherID: k.OtherID, Type: graphdb.MustIdentifier(k.Type), TS: k.TS})
	}
	return out
}

func (ds *MemoryDatastore) edgeExists(e graphdb.Edge) bool {
	_, ok := ds.edgeTimestamp(e)
	return ok
}

func (ds *MemoryDatastore) edgeTimestamp(e graphdb.Edge) (int64, bool) {
	keys := ds.outbound.Keys()
	lo := sort.Search(len(keys), func(i int) bool {
		return keys[i].(adjKey).VertexID >= e.OutboundID
	})
	hi := sort.Search(len(keys), func(i int) bool {
		return keys[i].(adjKey).VertexID > e.OutboundID
	})
	for _, k := range keys[lo:hi] {
		ak := k.(adjKey)
		if ak.OtherID == e.InboundID && ak.Type == e.Type.String() {
			return ak.TS, true
		}
	}
	return 0, false
}
