// Package pipeline streams JSONL dump files through a record transformer
// into a work sink.
//
// Run is the engine: it discovers dump files under an input directory,
// shuffles them for balance and fans them out to a pool of workers. Each
// worker transforms lines and flushes batches of works to the shared sink.
// Runner wraps the engine behind the driving Transformer port, resolving the
// transformer and sink from injected factories so commands never touch
// concrete adapters.
//
// # Failure Semantics
//
// A malformed line is logged and counted, never fatal. A sink write error or
// a cancelled context stops the whole run; the summary returned alongside
// the error carries the counters up to that point.
package pipeline
