package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransaction is a minimal Transaction double sufficient to drive
// DefaultBulkInsert's control flow without a real storage backend — it only
// needs to hand out vertex ids and accept everything else.
type stubTransaction struct {
	nextID uint64
}

func (s *stubTransaction) ID() string { return "stub" }

func (s *stubTransaction) CreateVertex(Identifier) (uint64, error) {
	s.nextID++
	return s.nextID, nil
}
func (s *stubTransaction) GetVertices(VertexQuery) ([]Vertex, error)        { return nil, nil }
func (s *stubTransaction) DeleteVertices(VertexQuery) error                 { return nil }
func (s *stubTransaction) GetVertexCount() (uint64, error)                  { return s.nextID, nil }
func (s *stubTransaction) CreateEdge(Edge) (bool, error)                    { return true, nil }
func (s *stubTransaction) GetEdges(EdgeQuery) ([]Edge, error)               { return nil, nil }
func (s *stubTransaction) DeleteEdges(EdgeQuery) error                      { return nil }
func (s *stubTransaction) GetEdgeCount(uint64, *Identifier, EdgeDirection) (uint64, error) {
	return 0, nil
}
func (s *stubTransaction) GetVertexProperties(VertexPropertyQuery) ([]VertexProperty, error) {
	return nil, nil
}
func (s *stubTransaction) GetAllVertexProperties(VertexQuery) ([]VertexProperties, error) {
	return nil, nil
}
func (s *stubTransaction) SetVertexProperties(VertexPropertyQuery, Json) error { return nil }
func (s *stubTransaction) DeleteVertexProperties(VertexPropertyQuery) error    { return nil }
func (s *stubTransaction) GetEdgeProperties(EdgePropertyQuery) ([]EdgeProperty, error) {
	return nil, nil
}
func (s *stubTransaction) GetAllEdgeProperties(EdgeQuery) ([]EdgeProperties, error) {
	return nil, nil
}
func (s *stubTransaction) SetEdgeProperties(EdgePropertyQuery, Json) error { return nil }
func (s *stubTransaction) DeleteEdgeProperties(EdgePropertyQuery) error    { return nil }
func (s *stubTransaction) Release() error                                 { return nil }

type stubDatastore struct{ tx *stubTransaction }

func (d *stubDatastore) Transaction() (Transaction, error) { return d.tx, nil }

// unknownBulkInsertItem is a BulkInsertItem variant DefaultBulkInsert has no
// switch case for, used to drive it into the default: error branch.
type unknownBulkInsertItem struct{}

func (unknownBulkInsertItem) isBulkInsertItem() {}

// DefaultBulkInsert aborts on the first item it can't handle, but retains
// the effects of every item already applied before that point.
func TestDefaultBulkInsertAbortsOnUnknownItemType(t *testing.T) {
	ds := &stubDatastore{tx: &stubTransaction{}}
	items := []BulkInsertItem{
		VertexInsertItem{Type: MustIdentifier("person")},
		VertexInsertItem{Type: MustIdentifier("person")},
		unknownBulkInsertItem{},
	}

	result, err := DefaultBulkInsert(ds, items)
	require.Error(t, err)
	require.True(t, result.HasIDRange)
	assert.EqualValues(t, 1, result.FirstVertexID)
	assert.EqualValues(t, 2, result.LastVertexID)
}
