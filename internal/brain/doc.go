// Package brain implements the HTTP client for the command execution
// backend. The contract is deliberately fire-and-forget: one POST per
// command, a fixed timeout, and no retry. Failures are classified into the
// DispatchResult taxonomy instead of being surfaced as errors.
package brain
