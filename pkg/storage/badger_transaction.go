package storage

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"

	"github.com/orneryd/graphdb"
)

// BadgerTransaction is graphdb.Transaction over a BadgerDatastore. Each
// method opens its own Badger transaction (db.Update for mutations,
// db.View for reads) while holding ds.mu, so the effect of the call is
// both ACID at the Badger level and serialized with respect to other
// graphdb.Transaction calls per spec §5. There is nothing buffered at
// this layer either — Release has no pending work, same as
// MemoryTransaction.
type BadgerTransaction struct {
	ds *BadgerDatastore
	id string
}

var _ graphdb.Transaction = (*BadgerTransaction)(nil)

func (tx *BadgerTransaction) ID() string {
	return tx.id
}

func (tx *BadgerTransaction) CreateVertex(t graphdb.Identifier) (uint64, error) {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	var id uint64
	err := tx.ds.db.Update(func(txn *badger.Txn) error {
		next, err := readCounter(txn, metaNextVertexID)
		if err != nil {
			return err
		}
		id = next + 1
		if err := writeCounter(txn, metaNextVertexID, id); err != nil {
			return wrapBackendError(err, "write vertex counter")
		}
		if err := txn.Set(vertexKey(id), []byte(t.String())); err != nil {
			return wrapBackendError(err, "set vertex")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (tx *BadgerTransaction) GetVertices(q graphdb.VertexQuery) ([]graphdb.Vertex, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.Vertex
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		res, err := evaluateVertexQuery(r, q)
		out = res
		return err
	})
	return out, err
}

func (tx *BadgerTransaction) DeleteVertices(q graphdb.VertexQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		vertices, err := evaluateVertexQuery(r, q)
		if err != nil {
			return err
		}
		for _, v := range vertices {
			if err := deleteVertexTxn(txn, v.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteVertexTxn(txn *badger.Txn, id uint64) error {
	r := &badgerReader{txn: txn}
	for _, e := range r.scanAdjacencyDesc(id, graphdb.Outbound) {
		edge := graphdb.NewEdge(id, e.Type, e.OtherID)
		if err := removeEdgeTxn(txn, edge, e.TS); err != nil {
			return err
		}
	}
	for _, e := range r.scanAdjacencyDesc(id, graphdb.Inbound) {
		edge := graphdb.NewEdge(e.OtherID, e.Type, id)
		if err := removeEdgeTxn(txn, edge, e.TS); err != nil {
			return err
		}
	}
	if err := deletePrefix(txn, vertexPropPrefix(id)); err != nil {
		return err
	}
	if err := txn.Delete(vertexKey(id)); err != nil {
		return wrapBackendError(err, "delete vertex")
	}
	return nil
}

func (tx *BadgerTransaction) GetVertexCount() (uint64, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var count uint64
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte{prefixVertex}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (tx *BadgerTransaction) CreateEdge(e graphdb.Edge) (bool, error) {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	var ok bool
	err := tx.ds.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(vertexKey(e.OutboundID)); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return wrapBackendError(err, "get outbound vertex")
		}
		if _, err := txn.Get(vertexKey(e.InboundID)); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return wrapBackendError(err, "get inbound vertex")
		}

		r := &badgerReader{txn: txn}
		if _, exists := r.findTimestamp(e); exists {
			ok = true
			return nil
		}

		next, err := readCounter(txn, metaNextTS)
		if err != nil {
			return err
		}
		ts := int64(next + 1)
		if err := writeCounter(txn, metaNextTS, uint64(ts)); err != nil {
			return wrapBackendError(err, "write ts counter")
		}
		if err := txn.Set(outboundKey(e.OutboundID, ts, e.InboundID, e.Type.String()), nil); err != nil {
			return wrapBackendError(err, "set outbound index")
		}
		if err := txn.Set(inboundKey(e.InboundID, ts, e.OutboundID, e.Type.String()), nil); err != nil {
			return wrapBackendError(err, "set inbound index")
		}
		ok = true
		return nil
	})
	return ok, err
}

func (tx *BadgerTransaction) GetEdges(q graphdb.EdgeQuery) ([]graphdb.Edge, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.Edge
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		res, err := evaluateEdgeQuery(r, q)
		out = res
		return err
	})
	return out, err
}

func (tx *BadgerTransaction) DeleteEdges(q graphdb.EdgeQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		edges, err := evaluateEdgeQuery(r, q)
		if err != nil {
			return err
		}
		for _, e := range edges {
			ts, exists := r.findTimestamp(e)
			if !exists {
				continue
			}
			if err := removeEdgeTxn(txn, e, ts); err != nil {
				return err
			}
		}
		return nil
	})
}

func removeEdgeTxn(txn *badger.Txn, e graphdb.Edge, ts int64) error {
	if err := txn.Delete(outboundKey(e.OutboundID, ts, e.InboundID, e.Type.String())); err != nil {
		return wrapBackendError(err, "delete outbound index")
	}
	if err := txn.Delete(inboundKey(e.InboundID, ts, e.OutboundID, e.Type.String())); err != nil {
		return wrapBackendError(err, "delete inbound index")
	}
	return deletePrefix(txn, edgePropPrefix(e.OutboundID, e.Type.String(), e.InboundID))
}

func (tx *BadgerTransaction) GetEdgeCount(id uint64, t *graphdb.Identifier, direction graphdb.EdgeDirection) (uint64, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var count uint64
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		for _, e := range r.scanAdjacencyDesc(id, direction) {
			if t != nil && !e.Type.Equal(*t) {
				continue
			}
			count++
		}
		return nil
	})
	return count, err
}

func (tx *BadgerTransaction) GetVertexProperties(q graphdb.VertexPropertyQuery) ([]graphdb.VertexProperty, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.VertexProperty
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		vertices, err := evaluateVertexQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, v := range vertices {
			value, ok, err := getJsonProperty(txn, vertexPropKey(v.ID, q.Name.String()))
			if err != nil {
				return err
			}
			if ok {
				out = append(out, graphdb.VertexProperty{VertexID: v.ID, Name: q.Name, Value: value})
			}
		}
		return nil
	})
	return out, err
}

func (tx *BadgerTransaction) GetAllVertexProperties(q graphdb.VertexQuery) ([]graphdb.VertexProperties, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.VertexProperties
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		vertices, err := evaluateVertexQuery(r, q)
		if err != nil {
			return err
		}
		for _, v := range vertices {
			props, err := scanJsonProperties(txn, vertexPropPrefix(v.ID))
			if err != nil {
				return err
			}
			out = append(out, graphdb.VertexProperties{VertexID: v.ID, Props: props})
		}
		return nil
	})
	return out, err
}

func (tx *BadgerTransaction) SetVertexProperties(q graphdb.VertexPropertyQuery, value graphdb.Json) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		vertices, err := evaluateVertexQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, v := range vertices {
			if err := setJsonProperty(txn, vertexPropKey(v.ID, q.Name.String()), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (tx *BadgerTransaction) DeleteVertexProperties(q graphdb.VertexPropertyQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		vertices, err := evaluateVertexQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, v := range vertices {
			if err := txn.Delete(vertexPropKey(v.ID, q.Name.String())); err != nil && err != badger.ErrKeyNotFound {
				return wrapBackendError(err, "delete vertex property")
			}
		}
		return nil
	})
}

func (tx *BadgerTransaction) GetEdgeProperties(q graphdb.EdgePropertyQuery) ([]graphdb.EdgeProperty, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.EdgeProperty
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		edges, err := evaluateEdgeQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, e := range edges {
			value, ok, err := getJsonProperty(txn, edgePropKey(e.OutboundID, e.Type.String(), e.InboundID, q.Name.String()))
			if err != nil {
				return err
			}
			if ok {
				out = append(out, graphdb.EdgeProperty{Edge: e, Name: q.Name, Value: value})
			}
		}
		return nil
	})
	return out, err
}

func (tx *BadgerTransaction) GetAllEdgeProperties(q graphdb.EdgeQuery) ([]graphdb.EdgeProperties, error) {
	tx.ds.mu.RLock()
	defer tx.ds.mu.RUnlock()

	var out []graphdb.EdgeProperties
	err := tx.ds.db.View(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		edges, err := evaluateEdgeQuery(r, q)
		if err != nil {
			return err
		}
		for _, e := range edges {
			props, err := scanJsonProperties(txn, edgePropPrefix(e.OutboundID, e.Type.String(), e.InboundID))
			if err != nil {
				return err
			}
			out = append(out, graphdb.EdgeProperties{Edge: e, Props: props})
		}
		return nil
	})
	return out, err
}

func (tx *BadgerTransaction) SetEdgeProperties(q graphdb.EdgePropertyQuery, value graphdb.Json) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		edges, err := evaluateEdgeQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, e := range edges {
			key := edgePropKey(e.OutboundID, e.Type.String(), e.InboundID, q.Name.String())
			if err := setJsonProperty(txn, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (tx *BadgerTransaction) DeleteEdgeProperties(q graphdb.EdgePropertyQuery) error {
	tx.ds.mu.Lock()
	defer tx.ds.mu.Unlock()

	return tx.ds.db.Update(func(txn *badger.Txn) error {
		r := &badgerReader{txn: txn}
		edges, err := evaluateEdgeQuery(r, q.Inner)
		if err != nil {
			return err
		}
		for _, e := range edges {
			key := edgePropKey(e.OutboundID, e.Type.String(), e.InboundID, q.Name.String())
			if err := txn.Delete(key); err != nil && err != badger.ErrKeyNotFound {
				return wrapBackendError(err, "delete edge property")
			}
		}
		return nil
	})
}

// Release is a no-op; every method above commits its own Badger
// transaction immediately when called.
func (tx *BadgerTransaction) Release() error {
	return nil
}

// badgerReader implements storageReader against one Badger transaction,
// letting evaluateVertexQuery/evaluateEdgeQuery run unchanged over either
// backend.
type badgerReader struct {
	txn *badger.Txn
}

func (r *badgerReader) vertexType(id uint64) (graphdb.Identifier, bool) {
	item, err := r.txn.Get(vertexKey(id))
	if err != nil {
		return graphdb.Identifier{}, false
	}
	var typ graphdb.Identifier
	err = item.Value(func(val []byte) error {
		typ = graphdb.MustIdentifier(string(val))
		return nil
	})
	if err != nil {
		return graphdb.Identifier{}, false
	}
	return typ, true
}

func (r *badgerReader) vertexIDsFrom(start uint64) []uint64 {
	var out []uint64
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := r.txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte{prefixVertex}
	for it.Seek(vertexKey(start)); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		out = append(out, decodeVertexKey(key))
	}
	return out
}

func decodeVertexKey(key []byte) uint64 {
	var id uint64
	for _, b := range key[1:] {
		id = id<<8 | uint64(b)
	}
	return id
}

func (r *badgerReader) scanAdjacencyDesc(vertexID uint64, dir graphdb.EdgeDirection) []adjacencyEntry {
	prefixByte := prefixOutbound
	if dir == graphdb.Inbound {
		prefixByte = prefixInbound
	}
	prefix := adjacencyPrefix(prefixByte, vertexID)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	it := r.txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte{}, prefix...), 0xFF)
	var out []adjacencyEntry
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		ts, otherID, typ := decodeAdjacencyKey(key)
		out = append(out, adjacencyEntry{OtherID: otherID, Type: graphdb.MustIdentifier(typ), TS: ts})
	}
	return out
}

func (r *badgerReader) edgeExists(e graphdb.Edge) bool {
	_, ok := r.findTimestamp(e)
	return ok
}

func (r *badgerReader) findTimestamp(e graphdb.Edge) (int64, bool) {
	prefix := adjacencyPrefix(prefixOutbound, e.OutboundID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := r.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		ts, otherID, typ := decodeAdjacencyKey(key)
		if otherID == e.InboundID && typ == e.Type.String() {
			return ts, true
		}
	}
	return 0, false
}

func getJsonProperty(txn *badger.Txn, key []byte) (graphdb.Json, bool, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return graphdb.Json{}, false, nil
	}
	if err != nil {
		return graphdb.Json{}, false, wrapBackendError(err, "get property")
	}
	var value graphdb.Json
	err = item.Value(func(val []byte) error {
		return (&value).UnmarshalJSON(val)
	})
	if err != nil {
		return graphdb.Json{}, false, wrapSerializationError(err, "decode property")
	}
	return value, true, nil
}

func setJsonProperty(txn *badger.Txn, key []byte, value graphdb.Json) error {
	data, err := value.MarshalJSON()
	if err != nil {
		return wrapSerializationError(err, "encode property")
	}
	if err := txn.Set(key, data); err != nil {
		return wrapBackendError(err, "set property")
	}
	return nil
}

func scanJsonProperties(txn *badger.Txn, prefix []byte) (map[string]graphdb.Json, error) {
	props := make(map[string]graphdb.Json)
	opts := badger.DefaultIteratorOptions
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		name := string(bytes.TrimPrefix(item.KeyCopy(nil), prefix))
		var value graphdb.Json
		err := item.Value(func(val []byte) error {
			return (&value).UnmarshalJSON(val)
		})
		if err != nil {
			return nil, wrapSerializationError(err, "decode property")
		}
		props[name] = value
	}
	return props, nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return wrapBackendError(err, "delete prefixed key")
		}
	}
	return nil
}
