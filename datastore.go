package graphdb

// Transaction is the capability surface for reading and mutating one
// datastore. Every method applies (or fails) immediately when called —
// there is no buffering and no rollback. A Transaction obtained from
// Datastore.Transaction is released with Release; releasing it commits
// whatever has already been applied, since there is nothing left pending.
//
// Implementations must serve every method atomically with respect to
// other transactions: a concurrent reader never observes a partially
// applied call.
type Transaction interface {
	// ID returns a unique identifier assigned to this transaction when it
	// was opened, for logging and diagnostics only — it plays no part in
	// query evaluation or storage identity.
	ID() string

	// CreateVertex allocates a fresh non-zero id for a vertex of type t
	// and inserts it into the vertex table.
	CreateVertex(t Identifier) (uint64, error)
	// GetVertices evaluates q and returns the matching vertices.
	GetVertices(q VertexQuery) ([]Vertex, error)
	// DeleteVertices evaluates q and removes the matching vertices,
	// cascading to their incident edges and all related properties.
	DeleteVertices(q VertexQuery) error
	// GetVertexCount returns the number of live vertices.
	GetVertexCount() (uint64, error)

	// CreateEdge inserts e, or is an idempotent no-op if it already
	// exists (see Edge). Returns false without error if either endpoint
	// is missing.
	CreateEdge(e Edge) (bool, error)
	// GetEdges evaluates q and returns the matching edges.
	GetEdges(q EdgeQuery) ([]Edge, error)
	// DeleteEdges evaluates q and removes the matching edges, cascading
	// to their properties.
	DeleteEdges(q EdgeQuery) error
	// GetEdgeCount counts edges on direction's adjacency index at id,
	// optionally restricted to type t.
	GetEdgeCount(id uint64, t *Identifier, direction EdgeDirection) (uint64, error)

	// GetVertexProperties evaluates q's inner query and returns one row
	// per selected vertex that has the named property set.
	GetVertexProperties(q VertexPropertyQuery) ([]VertexProperty, error)
	// GetAllVertexProperties evaluates q and returns one row per selected
	// vertex, whether or not it has any properties set.
	GetAllVertexProperties(q VertexQuery) ([]VertexProperties, error)
	// SetVertexProperties upserts value as q.Name on every vertex q's
	// inner query selects.
	SetVertexProperties(q VertexPropertyQuery, value Json) error
	// DeleteVertexProperties removes q.Name from every vertex q's inner
	// query selects; silent if absent.
	DeleteVertexProperties(q VertexPropertyQuery) error

	// GetEdgeProperties is GetVertexProperties for edges.
	GetEdgeProperties(q EdgePropertyQuery) ([]EdgeProperty, error)
	// GetAllEdgeProperties is GetAllVertexProperties for edges.
	GetAllEdgeProperties(q EdgeQuery) ([]EdgeProperties, error)
	// SetEdgeProperties is SetVertexProperties for edges.
	SetEdgeProperties(q EdgePropertyQuery, value Json) error
	// DeleteEdgeProperties is DeleteVertexProperties for edges.
	DeleteEdgeProperties(q EdgePropertyQuery) error

	// Release ends the transaction. Since every method above already
	// applied its effect when called, Release never has mutations left
	// to apply — it exists so callers have a single place to free any
	// per-transaction resources (e.g. a held lock) and so that `defer
	// tx.Release()` reads naturally at the call site.
	Release() error
}

// Datastore opens transactions against one graph's storage. Concrete
// implementations (in-memory, disk-backed) live in the storage
// subpackage; callers depend only on this interface.
type Datastore interface {
	// Transaction opens a new Transaction against the datastore.
	Transaction() (Transaction, error)
}

// DefaultBulkInsert is the shared BulkInsert algorithm every Datastore
// implementation can reuse: it opens one transaction, applies items in
// order, and aborts on the first error (partial effects already applied
// are retained, per the no-rollback policy — see Transaction).
func DefaultBulkInsert(ds Datastore, items []BulkInsertItem) (BulkInsertResult, error) {
	tx, err := ds.Transaction()
	if err != nil {
		return BulkInsertResult{}, err
	}
	defer tx.Release()

	var result BulkInsertResult
	for _, item := range items {
		switch it := item.(type) {
		case VertexInsertItem:
			id, err := tx.CreateVertex(it.Type)
			if err != nil {
				return result, err
			}
			if !result.HasIDRange {
				result.FirstVertexID = id
				result.HasIDRange = true
			}
			result.LastVertexID = id
		case EdgeInsertItem:
			if _, err := tx.CreateEdge(it.Edge); err != nil {
				return result, err
			}
		case VertexPropertyInsertItem:
			q := NewSpecificVertexQuery(it.VertexID).Property(it.Name)
			if err := tx.SetVertexProperties(q, it.Value); err != nil {
				return result, err
			}
		case EdgePropertyInsertItem:
			q := NewSpecificEdgeQuery(it.Edge).Property(it.Name)
			if err := tx.SetEdgeProperties(q, it.Value); err != nil {
				return result, err
			}
		default:
			return result, newError(ErrorKindInvalidValue, "unknown bulk insert item type %T", item)
		}
	}
	return result, nil
}
