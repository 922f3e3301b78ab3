package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/render"
)

type itemsDoc struct {
	Source string       `json:"source,omitempty"`
	Items  []feed.Photo `json:"items"`
}

type layoutDoc struct {
	Columns  int               `json:"columns"`
	Geometry *render.Geometry  `json:"geometry,omitempty"`
	Heights  []float64         `json:"heights,omitempty"`
	Items    [][]masonry.Item  `json:"items"`
	URLs     map[string]string `json:"urls,omitempty"`
}

// WriteItems encodes photos as an items document tagged with source.
func WriteItems(photos []feed.Photo, source string, w io.Writer) error {
	if photos == nil {
		photos = []feed.Photo{}
	}
	return encode(w, itemsDoc{Source: source, Items: photos})
}

// ExportItems writes an items file at path.
func ExportItems(photos []feed.Photo, source, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteItems(photos, source, w) })
}

// WriteLayout encodes f as a layout document. Only URLs of placed items are kept.
func WriteLayout(f LayoutFile, w io.Writer) error {
	g := f.Geometry
	doc := layoutDoc{
		Columns:  len(f.Layout.Columns),
		Geometry: &g,
		Heights:  f.Layout.Heights(),
		Items:    make([][]masonry.Item, len(f.Layout.Columns)),
	}
	for c, col := range f.Layout.Columns {
		doc.Items[c] = append([]masonry.Item{}, col.Items...)
		for _, it := range col.Items {
			if u, ok := f.URLs[it.ID]; ok {
				if doc.URLs == nil {
					doc.URLs = make(map[string]string)
				}
				doc.URLs[it.ID] = u
			}
		}
	}
	return encode(w, doc)
}

// ExportLayout writes a layout file at path.
func ExportLayout(f LayoutFile, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteLayout(f, w) })
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
