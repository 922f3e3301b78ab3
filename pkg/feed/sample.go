package feed

import (
	"context"
	"fmt"
)

// SampleHeights are the heights of the built-in sample photos, in order.
var SampleHeights = []int{300, 250, 400, 350, 280, 320, 270, 380, 290, 340}

// SampleSource serves the fixed sample photos on page 1 and nothing after.
type SampleSource struct{}

// Name returns "sample".
func (SampleSource) Name() string { return "sample" }

// Page returns up to perPage sample photos for page 1.
func (SampleSource) Page(ctx context.Context, page, perPage int) ([]Photo, error) {
	if err := checkPage(page, perPage); err != nil {
		return nil, err
	}
	if page > 1 {
		return nil, nil
	}
	return SamplePhotos()[:min(perPage, len(SampleHeights))], nil
}

// SamplePhotos returns a fresh copy of the sample photos.
func SamplePhotos() []Photo {
	photos := make([]Photo, len(SampleHeights))
	for i, h := range SampleHeights {
		photos[i] = Photo{
			ID:     fmt.Sprintf("sample-%02d", i+1),
			URL:    PicsumURL(randomWidth, h),
			Width:  randomWidth,
			Height: h,
		}
	}
	return photos
}
