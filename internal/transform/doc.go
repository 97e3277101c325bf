// Package transform implements the pure schedule rewrites applied at
// authoring scope boundaries: greedy left-packing, right-packing,
// sequential alignment, grouping, gap padding and directive removal.
//
// Every transform consumes schedules and produces a new schedule; inputs
// are never modified. A transform either fully succeeds with an
// invariant-preserving result or fails, typically with a collision error
// surfaced from the composition algebra.
package transform
