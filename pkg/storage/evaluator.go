package storage

import (
	"fmt"

	"github.com/orneryd/graphdb"
)

// adjacencyEntry is one row of an adjacency index scan: the vertex on the
// far side of the edge, its type, and the edge's creation timestamp.
type adjacencyEntry struct {
	OtherID uint64
	Type    graphdb.Identifier
	TS      int64
}

// storageReader is the read-only primitive surface the query evaluator
// needs from a concrete engine. Both the in-memory and disk-backed
// transactions implement it (while holding whatever lock their own
// contract requires), so evaluateVertexQuery/evaluateEdgeQuery below are
// shared unchanged between backends — the spec's "the query evaluator
// depends only on the capability surface" requirement.
type storageReader interface {
	// vertexType returns the type of a live vertex, or false if it
	// doesn't exist.
	vertexType(id uint64) (graphdb.Identifier, bool)
	// vertexIDsFrom returns the ids of live vertices with id >= start, in
	// ascending order, unfiltered and unlimited (the evaluator applies
	// type filtering and limits itself).
	vertexIDsFrom(start uint64) []uint64
	// scanAdjacencyDesc returns dir's adjacency entries for vertexID in
	// descending timestamp order.
	scanAdjacencyDesc(vertexID uint64, dir graphdb.EdgeDirection) []adjacencyEntry
	// edgeExists reports whether e is currently a live edge.
	edgeExists(e graphdb.Edge) bool
}

// evaluateVertexQuery resolves q against r into a materialised vertex
// slice, per spec §4.5.
func evaluateVertexQuery(r storageReader, q graphdb.VertexQuery) ([]graphdb.Vertex, error) {
	switch t := q.(type) {
	case graphdb.RangeVertexQuery:
		var out []graphdb.Vertex
		for _, id := range r.vertexIDsFrom(t.StartID) {
			typ, ok := r.vertexType(id)
			if !ok {
				continue
			}
			if !t.Type.IsZero() && !typ.Equal(t.Type) {
				continue
			}
			out = append(out, graphdb.NewVertex(id, typ))
			if t.Limit > 0 && len(out) >= t.Limit {
				break
			}
		}
		return out, nil

	case graphdb.SpecificVertexQuery:
		out := make([]graphdb.Vertex, 0, len(t.IDs))
		for _, id := range t.IDs {
			if typ, ok := r.vertexType(id); ok {
				out = append(out, graphdb.NewVertex(id, typ))
			}
		}
		return out, nil

	case graphdb.VertexPipe:
		edges, err := evaluateEdgeQuery(r, t.Inner)
		if err != nil {
			return nil, err
		}
		seen := make(map[uint64]struct{}, len(edges))
		var out []graphdb.Vertex
		for _, e := range edges {
			id := e.OutboundID
			if t.Direction == graphdb.Inbound {
				id = e.InboundID
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			typ, ok := r.vertexType(id)
			if !ok {
				continue
			}
			if !t.Type.IsZero() && !typ.Equal(t.Type) {
				continue
			}
			out = append(out, graphdb.NewVertex(id, typ))
			if t.Limit > 0 && len(out) >= t.Limit {
				break
			}
		}
		return out, nil

	default:
		return nil, newUnsupportedQueryError(q)
	}
}

// evaluateEdgeQuery resolves q against r into a materialised edge slice,
// per spec §4.5.
func evaluateEdgeQuery(r storageReader, q graphdb.EdgeQuery) ([]graphdb.Edge, error) {
	switch t := q.(type) {
	case graphdb.SpecificEdgeQuery:
		out := make([]graphdb.Edge, 0, len(t.Edges))
		for _, e := range t.Edges {
			if r.edgeExists(e) {
				out = append(out, e)
			}
		}
		return out, nil

	case graphdb.EdgePipe:
		sources, err := evaluateVertexQuery(r, t.Inner)
		if err != nil {
			return nil, err
		}
		var out []graphdb.Edge
		for _, v := range sources {
			entries := r.scanAdjacencyDesc(v.ID, t.Direction)
			emitted := 0
			for _, entry := range entries {
				if t.HighTS != nil && entry.TS > *t.HighTS {
					continue
				}
				if t.LowTS != nil && entry.TS <= *t.LowTS {
					continue
				}
				if !t.Type.IsZero() && !entry.Type.Equal(t.Type) {
					continue
				}
				if t.Direction == graphdb.Outbound {
					out = append(out, graphdb.NewEdge(v.ID, entry.Type, entry.OtherID))
				} else {
					out = append(out, graphdb.NewEdge(entry.OtherID, entry.Type, v.ID))
				}
				emitted++
				if t.Limit > 0 && emitted >= t.Limit {
					break
				}
			}
		}
		return out, nil

	default:
		return nil, newUnsupportedQueryError(q)
	}
}

func newUnsupportedQueryError(q any) error {
	return &graphdb.Error{Kind: graphdb.ErrorKindInvalidValue, Message: fmt.Sprintf("unsupported query variant: %T", q)}
}
