package graphdb

// BulkInsertItem is a single unit of work for DefaultBulkInsert: a
// vertex, an edge, or a vertex/edge property to set. Items are applied in
// order under one transaction; vertex items assign fresh ids as they are
// applied (there is no cross-item correlation of a not-yet-assigned id —
// an Edge item must reference a vertex id that already exists before the
// bulk operation began).
type BulkInsertItem interface {
	isBulkInsertItem()
}

// VertexInsertItem creates a vertex of Type. The id it's assigned is not
// knowable before the item is applied; see BulkInsertResult.
type VertexInsertItem struct {
	Type Identifier
}

func (VertexInsertItem) isBulkInsertItem() {}

// EdgeInsertItem creates the given edge, or is a no-op if it already exists.
type EdgeInsertItem struct {
	Edge Edge
}

func (EdgeInsertItem) isBulkInsertItem() {}

// VertexPropertyInsertItem sets a property on an existing vertex.
type VertexPropertyInsertItem struct {
	VertexID uint64
	Name     Identifier
	Value    Json
}

func (VertexPropertyInsertItem) isBulkInsertItem() {}

// EdgePropertyInsertItem sets a property on an existing edge.
type EdgePropertyInsertItem struct {
	Edge  Edge
	Name  Identifier
	Value Json
}

func (EdgePropertyInsertItem) isBulkInsertItem() {}

// BulkInsertResult summarises the ids produced by a DefaultBulkInsert call.
// HasIDRange is true only if at least one VertexInsertItem was applied;
// FirstVertexID and LastVertexID then hold the first and last assigned
// vertex ids.
type BulkInsertResult struct {
	FirstVertexID uint64
	LastVertexID  uint64
	HasIDRange    bool
}
