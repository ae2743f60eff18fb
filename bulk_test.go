package graphdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/graphdb"
	"github.com/orneryd/graphdb/pkg/storage"
)

// bulk_test.go lives in the graphdb_test external test package (rather than
// graphdb) so it can depend on pkg/storage without storage's own import of
// graphdb becoming a cycle.

func TestDefaultBulkInsert(t *testing.T) {
	ds := storage.NewMemoryDatastore()
	personType := graphdb.MustIdentifier("person")
	knowsType := graphdb.MustIdentifier("knows")
	nameProp := graphdb.MustIdentifier("name")

	items := []graphdb.BulkInsertItem{
		graphdb.VertexInsertItem{Type: personType},
		graphdb.VertexInsertItem{Type: personType},
	}
	result, err := graphdb.DefaultBulkInsert(ds, items)
	require.NoError(t, err)
	require.True(t, result.HasIDRange)
	assert.Equal(t, result.FirstVertexID+1, result.LastVertexID, "expected two consecutive ids")

	a, b := result.FirstVertexID, result.LastVertexID
	more := []graphdb.BulkInsertItem{
		graphdb.EdgeInsertItem{Edge: graphdb.NewEdge(a, knowsType, b)},
		graphdb.VertexPropertyInsertItem{VertexID: a, Name: nameProp, Value: graphdb.NewJson("alice")},
		graphdb.EdgePropertyInsertItem{Edge: graphdb.NewEdge(a, knowsType, b), Name: nameProp, Value: graphdb.NewJson("since2020")},
	}
	_, err = graphdb.DefaultBulkInsert(ds, more)
	require.NoError(t, err)

	tx, err := ds.Transaction()
	require.NoError(t, err)
	defer tx.Release()

	edges, err := tx.GetEdges(graphdb.NewSpecificEdgeQuery(graphdb.NewEdge(a, knowsType, b)))
	require.NoError(t, err)
	assert.Len(t, edges, 1, "expected the bulk-inserted edge to exist")

	props, err := tx.GetVertexProperties(graphdb.VertexPropertyQuery{Inner: graphdb.NewSpecificVertexQuery(a), Name: nameProp})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.True(t, props[0].Value.Equal(graphdb.NewJson("alice")))
}

// A property item naming a nonexistent edge is not itself an error (setting
// a property on a query that selects nothing is a documented no-op), so a
// batch mixing one in with a real vertex item still succeeds, with the
// vertex item's effect retained.
func TestDefaultBulkInsertToleratesMissingPropertyTarget(t *testing.T) {
	ds := storage.NewMemoryDatastore()
	personType := graphdb.MustIdentifier("person")
	knowsType := graphdb.MustIdentifier("knows")

	items := []graphdb.BulkInsertItem{
		graphdb.VertexInsertItem{Type: personType},
		graphdb.EdgePropertyInsertItem{Edge: graphdb.NewEdge(999, knowsType, 998), Name: graphdb.MustIdentifier("x"), Value: graphdb.NewJson(true)},
	}
	_, err := graphdb.DefaultBulkInsert(ds, items)
	require.NoError(t, err)

	tx, err := ds.Transaction()
	require.NoError(t, err)
	defer tx.Release()
	count, err := tx.GetVertexCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "expected the vertex item to have been applied")
}
