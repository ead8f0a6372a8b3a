// Package transforms maps raw source records onto the unified Work model.
// Each subpackage handles one dump format (openalex, datacite, crossref);
// this parent package holds the registry that the pipeline and CLI use to
// look transformers up by source.
//
// Transformers are pure line-to-work functions behind the RecordTransformer
// port: they never touch files, the network or shared state, which is what
// lets the pipeline fan lines out across workers without coordination.
package transforms
