package render

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/masonry"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

func scenarioLayout(t *testing.T) masonry.Layout {
	t.Helper()
	e, err := masonry.New(2)
	if err != nil {
		t.Fatal(err)
	}
	for i, h := range []float64{300, 250, 400, 350} {
		if _, err := e.Place(masonry.Item{ID: string(rune('a' + i)), Height: h}); err != nil {
			t.Fatal(err)
		}
	}
	return e.Snapshot()
}

func TestColumnWidth(t *testing.T) {
	g := DefaultGeometry()
	tests := []struct {
		cols int
		want float64
	}{
		{0, 0},
		{1, 410},
		{2, 200},
		{3, 130},
		{100, 0},
	}
	for _, tt := range tests {
		if got := g.ColumnWidth(tt.cols); got != tt.want {
			t.Errorf("ColumnWidth(%d) = %v, want %v", tt.cols, got, tt.want)
		}
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		cols    int
		wantErr bool
	}{
		{"default", DefaultGeometry(), 3, false},
		{"negative gap", Geometry{Width: 430, Gap: -1}, 2, true},
		{"too narrow", Geometry{Width: 50, Gap: 10, Padding: 10}, 4, true},
		{"no padding", Geometry{Width: 100}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Validate(tt.cols); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	s := Position(scenarioLayout(t), DefaultGeometry(), WithURLs(map[string]string{"a": "https://picsum.photos/200/300"}))

	if s.Columns != 2 || s.ColumnWidth != 200 {
		t.Fatalf("columns = %d, width = %v", s.Columns, s.ColumnWidth)
	}
	want := []Card{
		{ID: "a", Column: 0, Row: 0, X: 10, Y: 10, Width: 200, Height: 300, URL: "https://picsum.photos/200/300"},
		{ID: "d", Column: 0, Row: 1, X: 10, Y: 320, Width: 200, Height: 350},
		{ID: "b", Column: 1, Row: 0, X: 220, Y: 10, Width: 200, Height: 250},
		{ID: "c", Column: 1, Row: 1, X: 220, Y: 270, Width: 200, Height: 400},
	}
	if len(s.Cards) != len(want) {
		t.Fatalf("cards = %d, want %d", len(s.Cards), len(want))
	}
	for i := range want {
		if s.Cards[i] != want[i] {
			t.Errorf("card %d = %+v, want %+v", i, s.Cards[i], want[i])
		}
	}
	// tallest column: 10 + 650 + 10 gap, plus bottom padding
	if s.Height != 680 {
		t.Errorf("Height = %v, want 680", s.Height)
	}
}

func TestPositionEmpty(t *testing.T) {
	e, _ := masonry.New(3)
	s := Position(e.Snapshot(), DefaultGeometry())
	if len(s.Cards) != 0 {
		t.Errorf("cards = %d, want 0", len(s.Cards))
	}
	if s.Height != 2*DefaultPadding {
		t.Errorf("Height = %v, want %v", s.Height, 2*DefaultPadding)
	}
}

func TestPositionNoOverlap(t *testing.T) {
	e, _ := masonry.New(3)
	for i := range 30 {
		e.Place(masonry.Item{ID: string(rune('A' + i)), Height: float64(250 + (i*37)%151)})
	}
	s := Position(e.Snapshot(), DefaultGeometry())
	for i, a := range s.Cards {
		for _, b := range s.Cards[i+1:] {
			if a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				t.Fatalf("cards %s and %s overlap", a.ID, b.ID)
			}
		}
		if a.X+a.Width > s.Width || a.Y+a.Height > s.Height {
			t.Fatalf("card %s outside frame", a.ID)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	s := Position(scenarioLayout(t), DefaultGeometry(), WithURLs(map[string]string{"a": "https://picsum.photos/200/300"}))

	out := string(RenderSVG(s, WithLabels()))
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 430.0 680.0"`,
		`data-columns="2"`,
		`id="card-a"`,
		`<image href="https://picsum.photos/200/300"`,
		`>d</text>`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(out, `class="card"`); n != 4 {
		t.Errorf("card count = %d, want 4", n)
	}

	plain := string(RenderSVG(s, WithStyle(styles.Simple{}), WithoutImages()))
	if strings.Contains(plain, "<image") || strings.Contains(plain, "<text") {
		t.Error("simple SVG without images or labels should have neither")
	}
}

func TestRenderJSON(t *testing.T) {
	s := Position(scenarioLayout(t), DefaultGeometry())
	data, err := RenderJSON(s, WithJSONStyle("card"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Style   string    `json:"style"`
		Columns int       `json:"columns"`
		Heights []float64 `json:"heights"`
		Cards   []Card    `json:"cards"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Style != "card" || out.Columns != 2 || len(out.Cards) != 4 {
		t.Errorf("decoded = %+v", out)
	}
	if out.Heights[0] != 650 || out.Heights[1] != 650 {
		t.Errorf("heights = %v", out.Heights)
	}
}

func TestRenderJSONEmptyCards(t *testing.T) {
	data, err := RenderJSON(Scene{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"cards": []`) {
		t.Errorf("empty scene should encode cards as []: %s", data)
	}
}

func TestRenderJSONUnencodable(t *testing.T) {
	_, err := RenderJSON(Scene{Height: math.NaN()})
	if !werrors.Is(err, werrors.ErrCodeInternal) {
		t.Errorf("RenderJSON(NaN) error = %v, want INTERNAL_ERROR", err)
	}
}

func TestRenderPNG(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := RenderPNG(context.Background(), Position(scenarioLayout(t), DefaultGeometry()), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
}

func TestConvertWithoutConverter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := RenderPDF(context.Background(), Position(scenarioLayout(t), DefaultGeometry()))
	if !werrors.Is(err, werrors.ErrCodeUnsupported) {
		t.Errorf("RenderPDF() error = %v, want UNSUPPORTED", err)
	}
}

func TestConvertCanceled(t *testing.T) {
	if !HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ToPNG(ctx, []byte("<svg/>"), 1); err != context.Canceled {
		t.Errorf("ToPNG() error = %v, want context.Canceled", err)
	}
}
