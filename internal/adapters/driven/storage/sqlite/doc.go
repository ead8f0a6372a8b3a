// Package sqlite persists transformed works and run bookkeeping in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It exposes two surfaces
// over a single database connection:
//
//   - RunSink: a WorkSink that upserts works batch-by-batch inside one
//     transaction per batch, keyed on DOI, and records the run in the runs
//     table
//   - query helpers (GetWork, CountWorks, ListRuns) backing the works and
//     runs CLI commands
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory, applied in version order and tracked in the
// schema_migrations table.
//
// # Data Location
//
// By default, the database is stored at ~/.worknorm/data/works.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode; the RunSink additionally serialises its
// batches so concurrent pipeline workers never interleave transactions.
package sqlite
