// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordTransformer: Maps one raw source line onto the unified Work model
//   - WorkSink: Receives batches of transformed works (JSONL shards, SQLite,
//     or an in-memory collector in tests)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, transform, or pipeline package
package driven
