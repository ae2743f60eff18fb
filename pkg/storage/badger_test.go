package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphdb"
)

// newBadgerTx opens an in-memory BadgerDB instance (no disk I/O) so the
// disk-backed code path can run under go test without a data directory.
func newBadgerTx(t *testing.T) graphdb.Transaction {
	t.Helper()
	ds, err := NewBadgerDatastoreWithOptions(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	tx, err := ds.Transaction()
	require.NoError(t, err)
	return tx
}

func TestBadgerCreateGetEdge(t *testing.T) {
	tx := newBadgerTx(t)

	a, err := tx.CreateVertex(personType)
	require.NoError(t, err)
	b, err := tx.CreateVertex(personType)
	require.NoError(t, err)

	created, err := tx.CreateEdge(graphdb.NewEdge(a, knowsType, b))
	require.NoError(t, err)
	assert.True(t, created, "expected CreateEdge to report success between two live vertices")

	vertices, err := tx.GetVertices(graphdb.NewSpecificVertexQuery(a, b))
	require.NoError(t, err)
	assert.Len(t, vertices, 2)

	edges, err := tx.GetEdges(graphdb.NewSpecificEdgeQuery(graphdb.NewEdge(a, knowsType, b)))
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestBadgerInvalidEdge(t *testing.T) {
	tx := newBadgerTx(t)

	a, err := tx.CreateVertex(personType)
	require.NoError(t, err)

	created, err := tx.CreateEdge(graphdb.NewEdge(a, knowsType, a+999))
	require.NoError(t, err)
	assert.False(t, created, "expected CreateEdge to report failure when the inbound vertex doesn't exist")
}

func TestBadgerDeleteCascade(t *testing.T) {
	tx := newBadgerTx(t)

	a, _ := tx.CreateVertex(personType)
	b, _ := tx.CreateVertex(personType)
	c, _ := tx.CreateVertex(personType)

	_, err := tx.CreateEdge(graphdb.NewEdge(a, knowsType, b))
	require.NoError(t, err)
	_, err = tx.CreateEdge(graphdb.NewEdge(c, knowsType, a))
	require.NoError(t, err)

	require.NoError(t, tx.SetVertexProperties(graphdb.VertexPropertyQuery{Inner: graphdb.NewSpecificVertexQuery(a), Name: nameProp}, graphdb.NewJson("alice")))
	edgeAB := graphdb.NewEdge(a, knowsType, b)
	require.NoError(t, tx.SetEdgeProperties(graphdb.EdgePropertyQuery{Inner: graphdb.NewSpecificEdgeQuery(edgeAB), Name: nameProp}, graphdb.NewJson("since2020")))

	require.NoError(t, tx.DeleteVertices(graphdb.NewSpecificVertexQuery(a)))

	vertices, err := tx.GetVertices(graphdb.NewSpecificVertexQuery(a))
	require.NoError(t, err)
	assert.Empty(t, vertices)

	edges, err := tx.GetEdges(graphdb.NewSpecificEdgeQuery(edgeAB, graphdb.NewEdge(c, knowsType, a)))
	require.NoError(t, err)
	assert.Empty(t, edges)

	edgeProps, err := tx.GetEdgeProperties(graphdb.EdgePropertyQuery{Inner: graphdb.NewSpecificEdgeQuery(edgeAB), Name: nameProp})
	require.NoError(t, err)
	assert.Empty(t, edgeProps)

	remaining, err := tx.GetVertexCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, remaining, "expected 2 vertices left (b, c)")
}

func TestBadgerEdgeCounts(t *testing.T) {
	tx := newBadgerTx(t)

	a, _ := tx.CreateVertex(personType)
	b, _ := tx.CreateVertex(personType)
	c, _ := tx.CreateVertex(personType)

	_, err := tx.CreateEdge(graphdb.NewEdge(a, knowsType, b))
	require.NoError(t, err)
	_, err = tx.CreateEdge(graphdb.NewEdge(a, knowsType, c))
	require.NoError(t, err)
	_, err = tx.CreateEdge(graphdb.NewEdge(a, likesType, b))
	require.NoError(t, err)

	count, err := tx.GetEdgeCount(a, &knowsType, graphdb.Outbound)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	total, err := tx.GetEdgeCount(a, nil, graphdb.Outbound)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "expected 3 total outbound edges regardless of type")
}

func TestBadgerPipedTraversal(t *testing.T) {
	tx := newBadgerTx(t)

	alice, _ := tx.CreateVertex(personType)
	bob, _ := tx.CreateVertex(personType)
	carol, _ := tx.CreateVertex(personType)

	_, err := tx.CreateEdge(graphdb.NewEdge(alice, knowsType, bob))
	require.NoError(t, err)
	_, err = tx.CreateEdge(graphdb.NewEdge(alice, knowsType, carol))
	require.NoError(t, err)

	friends, err := tx.GetVertices(graphdb.NewSpecificVertexQuery(alice).Outbound(0).T(knowsType).Inbound(0))
	require.NoError(t, err)

	ids := make(map[uint64]bool, len(friends))
	for _, v := range friends {
		ids[v.ID] = true
	}
	assert.True(t, ids[bob])
	assert.True(t, ids[carol])
}

func TestBadgerCreateEdgeIdempotent(t *testing.T) {
	tx := newBadgerTx(t)

	a, _ := tx.CreateVertex(personType)
	b, _ := tx.CreateVertex(personType)

	_, err := tx.CreateEdge(graphdb.NewEdge(a, knowsType, b))
	require.NoError(t, err)
	_, err = tx.CreateEdge(graphdb.NewEdge(a, knowsType, b))
	require.NoError(t, err)

	count, err := tx.GetEdgeCount(a, &knowsType, graphdb.Outbound)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "expected re-creating an edge to not duplicate it")
}

func TestBadgerTransactionID(t *testing.T) {
	ds, err := NewBadgerDatastoreWithOptions(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer ds.Close()

	tx1, err := ds.Transaction()
	require.NoError(t, err)
	tx2, err := ds.Transaction()
	require.NoError(t, err)

	assert.NotEmpty(t, tx1.ID())
	assert.NotEmpty(t, tx2.ID())
	assert.NotEqual(t, tx1.ID(), tx2.ID())
}

func TestBadgerVertexPropertyLifecycle(t *testing.T) {
	tx := newBadgerTx(t)

	a, _ := tx.CreateVertex(personType)
	q := graphdb.VertexPropertyQuery{Inner: graphdb.NewSpecificVertexQuery(a), Name: nameProp}

	require.NoError(t, tx.SetVertexProperties(q, graphdb.NewJson("alice")))

	props, err := tx.GetVertexProperties(q)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.True(t, props[0].Value.Equal(graphdb.NewJson("alice")))

	require.NoError(t, tx.DeleteVertexProperties(q))
	props, err = tx.GetVertexProperties(q)
	require.NoError(t, err)
	assert.Empty(t, props)
}
