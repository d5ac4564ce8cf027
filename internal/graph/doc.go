// Package graph is an in-memory module dependency graph built from a bundler's
// build output.
//
// It answers two families of questions without re-running the bundler:
//
//   - what does a module import, directly or transitively
//   - what would be affected if a module changed (inverse dependency closure)
//
// # Identity
//
// Every module path is bound to an integer ID the first time it is referenced.
// IDs are assigned in increasing order and are never reissued while the graph is
// live: removing a module retires its ID, and adding the same path again yields a
// new one. Reset clears the graph and restarts the counter.
//
// Paths are canonicalized against a configured root, so absolute and
// root-relative spellings of one module share a single ID.
//
// # Modules
//
// A module is either internal (it has content and edges in both directions) or
// external (a boundary node such as a third-party package). External modules can
// be depended upon but never depend on anything and do not track dependents.
//
// # Edges
//
// A dependency edge is labelled with the literal import specifier that produced
// it. Each dependency is mirrored by a dependent back reference on the target
// when the target is internal. All edge writes go through a single link/unlink
// pair that keeps both directions in step.
//
// # Strict mode
//
// With WithStrict, AddModule and UpdateModule require Meta.Imports to name
// exactly the structural dependencies; any drift is rejected with a META_MISMATCH
// error before the graph is touched.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Every operation is synchronous and reads
// observe the live store, so callers must serialize mutations and queries.
package graph
