// Package masonry places variable-height items into fixed-width columns.
//
// # Overview
//
// A masonry (waterfall) grid packs items of varying height into a fixed
// number of columns so that column lengths stay as even as possible. [Engine]
// implements the classic greedy heuristic: each item goes to the column with
// the smallest accumulated height, and ties go to the lowest column index.
// Earlier placements are never revisited, so [Engine.PlaceAll] can be called
// repeatedly as new pages of items arrive.
//
// The heuristic is locally optimal only. It keeps the tallest column from
// growing more than necessary at each step but does not solve the optimal
// partition problem.
//
// # Lifecycle
//
//	e, err := masonry.New(2)            // empty
//	e.PlaceAll(firstPage)               // populated
//	e.PlaceAll(nextPage)                // load more
//	e.Reset()                           // pull to refresh: empty again
//	e.Reflow(3)                         // column count change: re-place retained items
//
// # Concurrency
//
// Engine is not safe for concurrent use. All mutating calls against one
// instance must be serialized by the caller; see pkg/gallery for a guarded
// wrapper.
//
// # Errors
//
// [New], [Engine.ResetColumns] and [Engine.Reflow] fail with code
// INVALID_CONFIGURATION for column counts below one. [Engine.Place] fails with
// INVALID_ITEM for non-positive heights and leaves the engine untouched. Use
// errors.Is from pkg/errors to test for either code.
package masonry
