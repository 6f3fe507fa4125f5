// Package trace defines the canonical span data model shared by the try
// engine: flat span records as produced by the normalizer, the reconstructed
// call tree, detected issues, and the assembled trace bundle.
package trace
