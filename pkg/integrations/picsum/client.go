package picsum

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/cache"
	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/feed"
	"github.com/matzehuels/waterfall/pkg/integrations"
)

// DefaultBaseURL is the public Lorem Picsum API.
const DefaultBaseURL = "https://picsum.photos"

// MaxLimit is the largest page size the API accepts.
const MaxLimit = 100

// Client lists photos from Lorem Picsum.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates a picsum client with the given cache backend.
// Pass [cache.NullCache] to disable caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client: integrations.NewClient(backend, "picsum", cacheTTL, map[string]string{
			"Accept":     "application/json",
			"User-Agent": "waterfall/" + buildinfo.Version,
		}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL returns a copy of c talking to baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	cp := *c
	cp.baseURL = baseURL
	return &cp
}

// WithRefresh returns a copy of c whose [Client.Page] bypasses the cache.
func (c *Client) WithRefresh(refresh bool) *Client {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// List retrieves one page of photos.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
// Failures are coded with [integrations.Classify]; the underlying
// [integrations.ErrNotFound] or [integrations.ErrNetwork] sentinels remain
// matchable with errors.Is.
func (c *Client) List(ctx context.Context, page, limit int, refresh bool) ([]feed.Photo, error) {
	if page < 1 {
		return nil, werrors.New(werrors.ErrCodeInvalidInput, "picsum: page %d out of range", page)
	}
	if limit < 1 || limit > MaxLimit {
		return nil, werrors.New(werrors.ErrCodeInvalidInput, "picsum: limit %d out of range [1, %d]", limit, MaxLimit)
	}

	key := strconv.Itoa(page) + ":" + strconv.Itoa(limit)
	var photos []feed.Photo
	err := c.Cached(ctx, key, refresh, &photos, func() error {
		return c.fetch(ctx, page, limit, &photos)
	})
	if err != nil {
		return nil, integrations.Classify(err, "picsum page %d", page)
	}
	return photos, nil
}

// Name returns "picsum".
func (c *Client) Name() string { return "picsum" }

// Page implements [feed.Source].
func (c *Client) Page(ctx context.Context, page, perPage int) ([]feed.Photo, error) {
	return c.List(ctx, page, perPage, c.refresh)
}

func (c *Client) fetch(ctx context.Context, page, limit int, photos *[]feed.Photo) error {
	url := fmt.Sprintf("%s/v2/list?page=%d&limit=%d", c.baseURL, page, limit)
	var data []apiPhoto
	if err := c.Get(ctx, url, &data); err != nil {
		return err
	}

	out := make([]feed.Photo, 0, len(data))
	for _, p := range data {
		out = append(out, feed.Photo{
			ID:     "picsum-" + p.ID,
			URL:    p.DownloadURL,
			Width:  p.Width,
			Height: p.Height,
			Author: p.Author,
		})
	}
	*photos = out
	return nil
}

type apiPhoto struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

var _ feed.Source = (*Client)(nil)
