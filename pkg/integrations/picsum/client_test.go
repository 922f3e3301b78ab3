package picsum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/waterfall/pkg/cache"
	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/integrations"
)

const listBody = `[
  {"id":"0","author":"Alejandro Escamilla","width":5000,"height":3333,"url":"https://unsplash.com/photos/yC-Yzbqy7PY","download_url":"https://picsum.photos/id/0/5000/3333"},
  {"id":"1","author":"Alejandro Escamilla","width":5000,"height":3333,"url":"https://unsplash.com/photos/LNRyGwIJr5c","download_url":"https://picsum.photos/id/1/5000/3333"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	t.Cleanup(func() { fc.Close() })

	c := NewClient(fc, time.Hour).WithBaseURL(server.URL)
	c.SetHTTPClient(server.Client())
	return c, &calls
}

func TestList(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/list" {
			t.Errorf("path = %q, want /v2/list", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, listBody)
	})

	photos, err := c.List(context.Background(), 2, 10, false)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if gotQuery != "page=2&limit=10" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(photos) != 2 {
		t.Fatalf("len = %d, want 2", len(photos))
	}
	p := photos[1]
	if p.ID != "picsum-1" || p.Width != 5000 || p.Height != 3333 || p.Author != "Alejandro Escamilla" {
		t.Errorf("photo = %+v", p)
	}
	if p.URL != "https://picsum.photos/id/1/5000/3333" {
		t.Errorf("URL = %q", p.URL)
	}
}

func TestListCached(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listBody)
	})
	ctx := context.Background()

	c.List(ctx, 1, 2, false)
	c.List(ctx, 1, 2, false)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}

	c.List(ctx, 1, 2, true)
	if n := calls.Load(); n != 2 {
		t.Errorf("calls after refresh = %d, want 2", n)
	}

	c.WithRefresh(true).Page(ctx, 1, 2)
	if n := calls.Load(); n != 3 {
		t.Errorf("calls after refreshing Page = %d, want 3", n)
	}
}

func TestListNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.List(context.Background(), 99, 10, false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("List() error = %v, want ErrNotFound", err)
	}
	if !werrors.Is(err, werrors.ErrCodeNotFound) {
		t.Errorf("List() code = %q, want NOT_FOUND", werrors.GetCode(err))
	}
}

func TestListBadArgs(t *testing.T) {
	c := NewClient(cache.NewNullCache(), time.Hour)
	tests := []struct {
		name        string
		page, limit int
	}{
		{"zero page", 0, 10},
		{"zero limit", 1, 0},
		{"limit too large", 1, MaxLimit + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.List(context.Background(), tt.page, tt.limit, false)
			if !werrors.Is(err, werrors.ErrCodeInvalidInput) {
				t.Errorf("List() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := NewClient(nil, time.Hour).Name(); got != "picsum" {
		t.Errorf("Name() = %q", got)
	}
}
