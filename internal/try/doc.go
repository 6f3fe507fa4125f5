// Package try is the per-request trace capture and bottleneck-analysis
// engine. A request explicitly marked for debugging gets an opaque session
// identifier; every call span produced while servicing it is recorded
// against that identifier; on query the engine retrieves the trace, rebuilds
// the hierarchical call graph with timing breakdowns, and flags likely
// bottlenecks.
//
// Subpackages follow the pipeline: propagate (identifier issue and context
// hand-off), sampler (record/drop gate), store (span buffering), backend and
// retrieve (trace lookup), normalize (raw payload to canonical spans), tree
// (hierarchy reconstruction), analyze (issue heuristics). This package's
// Engine ties them together behind the query API.
package try
