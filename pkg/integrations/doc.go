// Package integrations provides the shared HTTP client used by remote photo
// feeds.
//
// # Overview
//
// Each remote feed lives in its own subpackage:
//
//   - [picsum]: Lorem Picsum photo listings
//
// # Client Pattern
//
// Feed clients embed [Client] and follow a consistent pattern:
//
//	client := picsum.NewClient(backend, time.Hour)
//	photos, err := client.List(ctx, 1, 10, false) // false = use cache
//
// [Client] handles:
//   - HTTP requests with retry and rate limiting
//   - Response caching through any [cache.Cache] backend
//   - Default headers and status mapping
//
// # Adding a New Feed
//
//  1. Create a subpackage: pkg/integrations/<feed>/
//  2. Define response structs matching the API schema
//  3. Embed [Client] and implement [feed.Source]
//
// [picsum]: github.com/matzehuels/waterfall/pkg/integrations/picsum
// [cache.Cache]: github.com/matzehuels/waterfall/pkg/cache.Cache
// [feed.Source]: github.com/matzehuels/waterfall/pkg/feed.Source
package integrations
