// Package domain holds the canonical types shared by every pipeline stage.
//
// Source adapters produce RawEvent variants, the pipeline normalizes them into
// Command records, and the Dispatcher interface abstracts the brain backend.
// Nothing here depends on a concrete transport or platform SDK.
package domain
