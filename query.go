package graphdb

// VertexQuery is a tagged description of a selection over vertices: Range,
// Specific, or Pipe (the endpoints of an EdgeQuery's result set).
// Construction never touches the store; builder methods return new values,
// never mutate the receiver.
//
// Go has no tagged-union/sum-type construct, so VertexQuery is a sealed
// interface: the only implementations are the three structs below,
// enforced by an unexported marker method.
type VertexQuery interface {
	isVertexQuery()

	// Outbound lifts this vertex set into an EdgeQuery Pipe over its
	// outbound edges, capped at limit per source vertex.
	Outbound(limit int) EdgeQuery
	// Inbound lifts this vertex set into an EdgeQuery Pipe over its
	// inbound edges, capped at limit per source vertex.
	Inbound(limit int) EdgeQuery
	// T constrains the type filter of the query's outermost stage. Only
	// meaningful on Range and Pipe; a no-op on Specific (exact ids have no
	// type filter to narrow).
	T(t Identifier) VertexQuery
	// Property lifts this query into a VertexPropertyQuery naming the
	// given property.
	Property(name Identifier) VertexPropertyQuery
}

// RangeVertexQuery selects vertices with id >= StartID, optionally
// filtered by Type, capped at Limit.
type RangeVertexQuery struct {
	StartID uint64
	Type    Identifier // zero value: no filter
	Limit   int
}

func (RangeVertexQuery) isVertexQuery() {}

// NewRangeVertexQuery builds a Range query starting at startID (inclusive),
// capped at limit.
func NewRangeVertexQuery(startID uint64, limit int) RangeVertexQuery {
	return RangeVertexQuery{StartID: startID, Limit: limit}
}

func (q RangeVertexQuery) T(t Identifier) VertexQuery {
	q.Type = t
	return q
}

func (q RangeVertexQuery) Outbound(limit int) EdgeQuery {
	return newEdgePipe(q, Outbound, limit)
}

func (q RangeVertexQuery) Inbound(limit int) EdgeQuery {
	return newEdgePipe(q, Inbound, limit)
}

func (q RangeVertexQuery) Property(name Identifier) VertexPropertyQuery {
	return VertexPropertyQuery{Inner: q, Name: name}
}

// SpecificVertexQuery selects exactly the listed ids that exist, in the
// listed order.
type SpecificVertexQuery struct {
	IDs []uint64
}

func (SpecificVertexQuery) isVertexQuery() {}

// NewSpecificVertexQuery builds a Specific query over the given ids.
func NewSpecificVertexQuery(ids ...uint64) SpecificVertexQuery {
	return SpecificVertexQuery{IDs: append([]uint64(nil), ids...)}
}

func (q SpecificVertexQuery) T(Identifier) VertexQuery {
	return q
}

func (q SpecificVertexQuery) Outbound(limit int) EdgeQuery {
	return newEdgePipe(q, Outbound, limit)
}

func (q SpecificVertexQuery) Inbound(limit int) EdgeQuery {
	return newEdgePipe(q, Inbound, limit)
}

func (q SpecificVertexQuery) Property(name Identifier) VertexPropertyQuery {
	return VertexPropertyQuery{Inner: q, Name: name}
}

// VertexPipe selects the endpoints, on Direction, of an inner EdgeQuery's
// result set, deduplicated in first-seen order, optionally type-filtered,
// capped at Limit. Produced by calling Outbound/Inbound on an EdgeQuery.
type VertexPipe struct {
	Inner     EdgeQuery
	Direction EdgeDirection
	Type      Identifier
	Limit     int
}

func (VertexPipe) isVertexQuery() {}

func newVertexPipe(inner EdgeQuery, dir EdgeDirection, limit int) VertexPipe {
	return VertexPipe{Inner: inner, Direction: dir, Limit: limit}
}

func (q VertexPipe) T(t Identifier) VertexQuery {
	q.Type = t
	return q
}

func (q VertexPipe) Outbound(limit int) EdgeQuery {
	return newEdgePipe(q, Outbound, limit)
}

func (q VertexPipe) Inbound(limit int) EdgeQuery {
	return newEdgePipe(q, Inbound, limit)
}

func (q VertexPipe) Property(name Identifier) VertexPropertyQuery {
	return VertexPropertyQuery{Inner: q, Name: name}
}

// EdgeQuery is a tagged description of a selection over edges: Specific or
// Pipe (the edges incident to a VertexQuery's result set).
type EdgeQuery interface {
	isEdgeQuery()

	// Outbound lifts this edge set's outbound endpoints into a new
	// VertexQuery.
	Outbound(limit int) VertexQuery
	// Inbound lifts this edge set's inbound endpoints into a new
	// VertexQuery.
	Inbound(limit int) VertexQuery
	// T constrains the type filter of the query's outermost stage.
	T(t Identifier) EdgeQuery
	// Property lifts this query into an EdgePropertyQuery naming the given
	// property.
	Property(name Identifier) EdgePropertyQuery
}

// SpecificEdgeQuery selects exactly the listed edges that exist, in the
// listed order.
type SpecificEdgeQuery struct {
	Edges []Edge
}

func (SpecificEdgeQuery) isEdgeQuery() {}

// NewSpecificEdgeQuery builds a Specific query over the given edges.
func NewSpecificEdgeQuery(edges ...Edge) SpecificEdgeQuery {
	return SpecificEdgeQuery{Edges: append([]Edge(nil), edges...)}
}

func (q SpecificEdgeQuery) T(Identifier) EdgeQuery {
	return q
}

func (q SpecificEdgeQuery) Outbound(limit int) VertexQuery {
	return newVertexPipe(q, Outbound, limit)
}

func (q SpecificEdgeQuery) Inbound(limit int) VertexQuery {
	return newVertexPipe(q, Inbound, limit)
}

func (q SpecificEdgeQuery) Property(name Identifier) EdgePropertyQuery {
	return EdgePropertyQuery{Inner: q, Name: name}
}

// EdgePipe selects the edges incident to an inner VertexQuery's result set
// on Direction, type-filtered, restricted to edges whose creation
// timestamp lies within (Low, High] when those bounds are set (nil means
// unbounded), ordered descending by timestamp per source vertex, capped at
// Limit per source vertex. Produced by calling Outbound/Inbound on a
// VertexQuery.
type EdgePipe struct {
	Inner     VertexQuery
	Direction EdgeDirection
	Type      Identifier
	Limit     int
	HighTS    *int64
	LowTS     *int64
}

func (EdgePipe) isEdgeQuery() {}

func newEdgePipe(inner VertexQuery, dir EdgeDirection, limit int) EdgePipe {
	return EdgePipe{Inner: inner, Direction: dir, Limit: limit}
}

func (q EdgePipe) T(t Identifier) EdgeQuery {
	q.Type = t
	return q
}

// High restricts results to creation timestamps <= ts.
func (q EdgePipe) High(ts int64) EdgePipe {
	q.HighTS = &ts
	return q
}

// Low restricts results to creation timestamps > ts.
func (q EdgePipe) Low(ts int64) EdgePipe {
	q.LowTS = &ts
	return q
}

func (q EdgePipe) Outbound(limit int) VertexQuery {
	return newVertexPipe(q, Outbound, limit)
}

func (q EdgePipe) Inbound(limit int) VertexQuery {
	return newVertexPipe(q, Inbound, limit)
}

func (q EdgePipe) Property(name Identifier) EdgePropertyQuery {
	return EdgePropertyQuery{Inner: q, Name: name}
}

// VertexPropertyQuery scopes a VertexQuery to a single named property.
type VertexPropertyQuery struct {
	Inner VertexQuery
	Name  Identifier
}

// EdgePropertyQuery scopes an EdgeQuery to a single named property.
type EdgePropertyQuery struct {
	Inner EdgeQuery
	Name  Identifier
}
