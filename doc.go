// Package graphdb is an embeddable graph datastore: a directed, typed,
// property-attributed multigraph with transactional storage and a
// compositional query/traversal evaluator.
//
// The package defines the data model (Identifier, Json, Vertex, Edge), the
// query AST (VertexQuery/EdgeQuery and their property-scoped variants), the
// Datastore/Transaction capability surface, and bulk-insert support. Concrete
// storage engines — an in-memory reference implementation and an optional
// disk-backed one — live in the storage subpackage; a plugin boundary lives
// in the plugin subpackage.
//
// # Example
//
//	ds := storage.NewMemoryDatastore()
//	tx, _ := ds.Transaction()
//	defer tx.Release()
//
//	personType, _ := graphdb.NewIdentifier("person")
//	alice, _ := tx.CreateVertex(personType)
//	bob, _ := tx.CreateVertex(personType)
//
//	knows, _ := graphdb.NewIdentifier("knows")
//	tx.CreateEdge(graphdb.NewEdge(alice, knows, bob))
//
//	edges, _ := tx.GetEdges(graphdb.NewSpecificVertexQuery(alice).Outbound(10))
package graphdb
