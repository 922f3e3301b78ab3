package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/render"
)

// heightTolerance bounds the difference between a recorded column height and
// the sum of its items.
const heightTolerance = 1e-6

// ReadItems decodes an items document from r.
//
// ReadItems returns an INVALID_FORMAT error if the JSON is malformed, an
// entry has no ID, two entries share an ID, or a URL is not absolute http(s).
// It does not close r.
func ReadItems(r io.Reader) ([]feed.Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var photos []feed.Photo
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &photos)
	} else {
		var doc itemsDoc
		err = json.Unmarshal(trimmed, &doc)
		photos = doc.Items
	}
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeInvalidFormat, err, "decode items")
	}

	seen := make(map[string]int, len(photos))
	for i, p := range photos {
		if p.ID == "" {
			return nil, werrors.New(werrors.ErrCodeInvalidFormat, "item %d: missing id", i)
		}
		if j, dup := seen[p.ID]; dup {
			return nil, werrors.New(werrors.ErrCodeInvalidFormat, "item %d: duplicate id %q (first at %d)", i, p.ID, j)
		}
		if p.URL != "" {
			if err := werrors.ValidateURL(p.URL); err != nil {
				return nil, werrors.Wrap(werrors.ErrCodeInvalidFormat, err, "item %q: bad url", p.ID)
			}
		}
		seen[p.ID] = i
	}
	if photos == nil {
		photos = []feed.Photo{}
	}
	return photos, nil
}

// ImportItems reads an items file at path.
func ImportItems(path string) ([]feed.Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadItems(f)
}

// LayoutFile is a decoded layout document.
type LayoutFile struct {
	Layout   masonry.Layout
	Geometry render.Geometry
	URLs     map[string]string
}

// Scene positions the layout in its recorded geometry.
func (f LayoutFile) Scene() render.Scene {
	return render.Position(f.Layout, f.Geometry, render.WithURLs(f.URLs))
}

// ReadLayout decodes a layout document from r.
//
// Missing geometry falls back to [render.DefaultGeometry]. Missing heights are
// recomputed from the items. Recorded heights that disagree with their items,
// or a column count that disagrees with the item columns, yield INVALID_FORMAT.
func ReadLayout(r io.Reader) (LayoutFile, error) {
	var doc layoutDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return LayoutFile{}, werrors.Wrap(werrors.ErrCodeInvalidFormat, err, "decode layout")
	}

	if doc.Columns == 0 {
		doc.Columns = len(doc.Items)
	}
	if err := werrors.ValidateColumns(doc.Columns); err != nil {
		return LayoutFile{}, err
	}
	if len(doc.Items) != doc.Columns {
		return LayoutFile{}, werrors.New(werrors.ErrCodeInvalidFormat, "columns = %d but %d item columns", doc.Columns, len(doc.Items))
	}
	if doc.Heights != nil && len(doc.Heights) != doc.Columns {
		return LayoutFile{}, werrors.New(werrors.ErrCodeInvalidFormat, "columns = %d but %d heights", doc.Columns, len(doc.Heights))
	}

	l := masonry.Layout{Columns: make([]masonry.Column, doc.Columns)}
	for c, items := range doc.Items {
		sum := 0.0
		for _, it := range items {
			if err := werrors.ValidateHeight(it.ID, it.Height); err != nil {
				return LayoutFile{}, err
			}
			sum += it.Height
		}
		if doc.Heights != nil && math.Abs(doc.Heights[c]-sum) > heightTolerance {
			return LayoutFile{}, werrors.New(werrors.ErrCodeInvalidFormat, "column %d: height %g does not match items (%g)", c, doc.Heights[c], sum)
		}
		l.Columns[c] = masonry.Column{Height: sum, Items: append([]masonry.Item{}, items...)}
	}

	g := render.DefaultGeometry()
	if doc.Geometry != nil {
		g = *doc.Geometry
	}
	return LayoutFile{Layout: l, Geometry: g, URLs: doc.URLs}, nil
}

// ImportLayout reads a layout file at path.
func ImportLayout(path string) (LayoutFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return LayoutFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
