package render

import (
	"encoding/json"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
}

// WithJSONStyle records the style name in the output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Style string `json:"style,omitempty"`
	Scene
}

// RenderJSON exports the positioned scene as a pretty-printed JSON document.
// It does not modify s and is safe to call concurrently.
func RenderJSON(s Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Style: r.style, Scene: s}
	if out.Cards == nil {
		out.Cards = []Card{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeInternal, err, "encode scene")
	}
	return data, nil
}
