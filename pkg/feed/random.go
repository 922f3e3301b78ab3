package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Bounds of generated photo heights, inclusive.
const (
	MinRandomHeight = 250
	MaxRandomHeight = 400

	randomWidth = 200

	// pageStride spreads per-page seeds apart.
	pageStride = 1_000_003
)

// RandomSource generates an endless feed of placeholder photos.
//
// Every page is derived from the seed and the page number alone, so the same
// seed always produces the same photos and IDs.
type RandomSource struct {
	seed int64
}

// NewRandomSource returns a source seeded with seed. A zero seed picks one
// from the clock.
func NewRandomSource(seed int64) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSource{seed: seed}
}

// Name returns "random".
func (s *RandomSource) Name() string { return "random" }

// Seed returns the effective seed.
func (s *RandomSource) Seed() int64 { return s.seed }

// Page generates perPage photos for page.
func (s *RandomSource) Page(ctx context.Context, page, perPage int) ([]Photo, error) {
	if err := checkPage(page, perPage); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.seed + int64(page)*pageStride))
	photos := make([]Photo, perPage)
	for i := range photos {
		h := MinRandomHeight + rng.Intn(MaxRandomHeight-MinRandomHeight+1)
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, err
		}
		photos[i] = Photo{
			ID:     id.String(),
			URL:    PicsumURL(randomWidth, h),
			Width:  randomWidth,
			Height: h,
		}
	}
	return photos, nil
}
