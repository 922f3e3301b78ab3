// Package feed provides paged photo sources and the incremental loader that
// drives pagination and pull-to-refresh.
//
// A [Source] returns one page of [Photo] values at a time. [RandomSource]
// generates seeded photos with heights between 250 and 400, [SampleSource]
// serves ten fixed photos, and the picsum integration fetches real listings.
//
// [Loader] tracks the next page and refuses overlapping loads with [ErrBusy].
// [ToItem] converts a photo into a [masonry.Item] scaled to a column width.
package feed
