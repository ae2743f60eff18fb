package storage

import "github.com/orneryd/graphdb"

// MemoryTransaction is graphdb.Transaction over a MemoryDatastore. Every
// method applies (or fails) immediately against ds's shared state while
// holding ds.mu — there is no per-transaction buffer and Release has
// nothing left to commit. This mirrors the spec's "dropped Transaction
// applies its pending mutations as a successful commit" policy by never
// having pending mutations in the first place, rather than by committing
// a WAL on drop.
type MemoryTransaction struct {
	ds *MemoryDatastore
	id string
}

var _ graphdb.Transaction = (*MemoryTransaction)(nil)

func (tx *MemoryTransaction) ID() string {
	return tx.id
}

func (tx *MemoryTransaction) CreateVertex(t graphdb.Identifier) (uint64, error) {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	tx.ds.nextVertexID++
	id := tx.ds.nextVertexID
	tx.ds.vertices.Put(id, t)
	return id, nil
}

func (tx *MemoryTransaction) GetVertices(q graphdb.VertexQuery) ([]graphdb.Vertex, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()
	return evaluateVertexQuery(tx.ds, q)
}

func (tx *MemoryTransaction) DeleteVertices(q graphdb.VertexQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	vertices, err := evaluateVertexQuery(tx.ds, q)
	if err != nil {
		return err
	}
	for _, v := range vertices {
		tx.deleteVertexUnlocked(v.ID)
	}
	return nil
}

func (tx *MemoryTransaction) deleteVertexUnlocked(id uint64) {
	ds := tx.ds

	for _, e := range ds.scanAdjacencyDesc(id, graphdb.Outbound) {
		edge := graphdb.NewEdge(id, e.Type, e.OtherID)
		removeEdgeIndexes(ds, edge, e.TS)
		delete(ds.edgeProps, edge)
	}
	for _, e := range ds.scanAdjacencyDesc(id, graphdb.Inbound) {
		edge := graphdb.NewEdge(e.OtherID, e.Type, id)
		removeEdgeIndexes(ds, edge, e.TS)
		delete(ds.edgeProps, edge)
	}
	delete(ds.vertexProps, id)
	ds.vertices.Remove(id)
}

func (tx *MemoryTransaction) GetVertexCount() (uint64, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()
	return uint64(tx.ds.vertices.Size()), nil
}

func (tx *MemoryTransaction) CreateEdge(e graphdb.Edge) (bool, error) {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()
	ds := tx.ds

	if _, ok := ds.vertexType(e.OutboundID); !ok {
		return false, nil
	}
	if _, ok := ds.vertexType(e.InboundID); !ok {
		return false, nil
	}
	if _, ok := ds.edgeTimestamp(e); ok {
		return true, nil
	}
	ds.nextTS++
	ts := ds.nextTS
	addEdgeIndexes(ds, e, ts)
	return true, nil
}

func (tx *MemoryTransaction) GetEdges(q graphdb.EdgeQuery) ([]graphdb.Edge, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()
	return evaluateEdgeQuery(tx.ds, q)
}

func (tx *MemoryTransaction) DeleteEdges(q graphdb.EdgeQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()
	ds := tx.ds

	edges, err := evaluateEdgeQuery(ds, q)
	if err != nil {
		return err
	}
	for _, e := range edges {
		ts, ok := ds.edgeTimestamp(e)
		if !ok {
			continue
		}
		removeEdgeIndexes(ds, e, ts)
		delete(ds.edgeProps, e)
	}
	return nil
}

func (tx *MemoryTransaction) GetEdgeCount(id uint64, t *graphdb.Identifier, direction graphdb.EdgeDirection) (uint64, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var count uint64
	for _, e := range tx.ds.scanAdjacencyDesc(id, direction) {
		if t != nil && !e.Type.Equal(*t) {
			continue
		}
		count++
	}
	return count, nil
}

func (tx *MemoryTransaction) GetVertexProperties(q graphdb.VertexPropertyQuery) ([]graphdb.VertexProperty, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	vertices, err := evaluateVertexQuery(tx.ds, q.Inner)
	if err != nil {
		return nil, err
	}
	var out []graphdb.VertexProperty
	for _, v := range vertices {
		if value, ok := tx.ds.vertexProps[v.ID][q.Name.String()]; ok {
			out = append(out, graphdb.VertexProperty{VertexID: v.ID, Name: q.Name, Value: value})
		}
	}
	return out, nil
}

func (tx *MemoryTransaction) GetAllVertexProperties(q graphdb.VertexQuery) ([]graphdb.VertexProperties, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	vertices, err := evaluateVertexQuery(tx.ds, q)
	if err != nil {
		return nil, err
	}
	out := make([]graphdb.VertexProperties, 0, len(vertices))
	for _, v := range vertices {
		out = append(out, graphdb.VertexProperties{VertexID: v.ID, Props: copyJsonMap(tx.ds.vertexProps[v.ID])})
	}
	return out, nil
}

func (tx *MemoryTransaction) SetVertexProperties(q graphdb.VertexPropertyQuery, value graphdb.Json) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	vertices, err := evaluateVertexQuery(tx.ds, q.Inner)
	if err != nil {
		return err
	}
	for _, v := range vertices {
		props := tx.ds.vertexProps[v.ID]
		if props == nil {
			props = make(map[string]graphdb.Json)
			tx.ds.vertexProps[v.ID] = props
		}
		props[q.Name.String()] = value
	}
	return nil
}

func (tx *MemoryTransaction) DeleteVertexProperties(q graphdb.VertexPropertyQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	vertices, err := evaluateVertexQuery(tx.ds, q.Inner)
	if err != nil {
		return err
	}
	for _, v := range vertices {
		delete(tx.ds.vertexProps[v.ID], q.Name.String())
	}
	return nil
}

func (tx *MemoryTransaction) GetEdgeProperties(q graphdb.EdgePropertyQuery) ([]graphdb.EdgeProperty, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	edges, err := evaluateEdgeQuery(tx.ds, q.Inner)
	if err != nil {
		return nil, err
	}
	var out []graphdb.EdgeProperty
	for _, e := range edges {
		if value, ok := tx.ds.edgeProps[e][q.Name.String()]; ok {
			out = append(out, graphdb.EdgeProperty{Edge: e, Name: q.Name, Value: value})
		}
	}
	return out, nil
}

func (tx *MemoryTransaction) GetAllEdgeProperties(q graphdb.EdgeQuery) ([]graphdb.EdgeProperties, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	edges, err := evaluateEdgeQuery(tx.ds, q)
	if err != nil {
		return nil, err
	}
	out := make([]graphdb.EdgeProperties, 0, len(edges))
	for _, e := range edges {
		out = append(out, graphdb.EdgeProperties{Edge: e, Props: copyJsonMap(tx.ds.edgeProps[e])})
	}
	return out, nil
}

func (tx *MemoryTransaction) SetEdgeProperties(q graphdb.EdgePropertyQuery, value graphdb.Json) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	edges, err := evaluateEdgeQuery(tx.ds, q.Inner)
	if err != nil {
		return err
	}
	for _, e := range edges {
		props := tx.ds.edgeProps[e]
		if props == nil {
			props = make(map[string]graphdb.Json)
			tx.ds.edgeProps[e] = props
		}
		props[q.Name.String()] = value
	}
	return nil
}

func (tx *MemoryTransaction) DeleteEdgeProperties(q graphdb.EdgePropertyQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	edges, err := evaluateEdgeQuery(tx.ds, q.Inner)
	if err != nil {
		return err
	}
	for _, e := range edges {
		delete(tx.ds.edgeProps[e], q.Name.String())
	}
	return nil
}

// Release is a no-op: every method above already applied its effect when
// called, so there is nothing pending to commit.
func (tx *MemoryTransaction) Release() error {
	return nil
}

func addEdgeIndexes(ds *MemoryDatastore, e graphdb.Edge, ts int64) {
	ds.outbound.Put(adjKey{VertexID: e.OutboundID, TS: ts, OtherID: e.InboundID, Type: e.Type.String()}, struct{}{})
	ds.inbound.Put(adjKey{VertexID: e.InboundID, TS: ts, OtherID: e.OutboundID, Type: e.Type.String()}, struct{}{})
}

func removeEdgeIndexes(ds *MemoryDatastore, e graphdb.Edge, ts int64) {
	ds.outbound.Remove(adjKey{VertexID: e.OutboundID, TS: ts, OtherID: e.InboundID, Type: e.Type.String()})
	ds.inbound.Remove(adjKey{VertexID: e.InboundID, TS: ts, OtherID: e.OutboundID, Type: e.Type.String()})
}

func copyJsonMap(m map[string]graphdb.Json) map[string]graphdb.Json {
	out := make(map[string]graphdb.Json, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
