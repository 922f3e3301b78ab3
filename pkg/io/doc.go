// Package io provides JSON import and export for photo lists and computed layouts.
//
// # Items Format
//
// An items file lists photos in arrival order. Either a bare array or an
// object with an "items" array is accepted:
//
//	{
//	  "source": "sample",
//	  "items": [
//	    {"id": "sample-01", "height": 300, "width": 200, "url": "https://picsum.photos/200/300"},
//	    {"id": "sample-02", "height": 250}
//	  ]
//	}
//
// Required fields:
//   - id: unique string identifier
//   - height: intrinsic (or display) height
//
// Optional: width (enables aspect-ratio scaling), url, author.
//
// Heights are not checked on import; the layout engine rejects invalid items
// individually so one bad entry does not discard a whole file.
//
// # Layout Format
//
// A layout file records a computed layout together with the frame it was
// computed for, so it can be re-rendered without re-running placement:
//
//	{
//	  "columns": 2,
//	  "geometry": {"width": 430, "gap": 10, "padding": 10},
//	  "heights": [650, 650],
//	  "items": [
//	    [{"id": "a", "height": 300}, {"id": "d", "height": 350}],
//	    [{"id": "b", "height": 250}, {"id": "c", "height": 400}]
//	  ],
//	  "urls": {"a": "https://picsum.photos/200/300"}
//	}
//
// [ReadLayout] checks that each recorded column height equals the sum of its
// items, so hand-edited files cannot silently drift.
//
// # Import and Export
//
// Use [ImportItems]/[ImportLayout] to read from a path, or [ReadItems]/
// [ReadLayout] to read from any io.Reader. [ExportItems]/[ExportLayout] and
// [WriteItems]/[WriteLayout] are the inverses.
//
//	photos, err := io.ImportItems("items.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package io
