// Package driving defines interfaces that external actors (the CLI, the
// progress UI) use to interact with the core. These are the "driving" ports
// in hexagonal architecture terminology - they drive the application.
//
// The Transformer port is implemented by the pipeline runner; the CLI depends
// only on the interface so commands stay testable with hand-written mocks.
package driving
