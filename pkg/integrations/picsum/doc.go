// Package picsum provides a client for the Lorem Picsum photo listing API.
//
// The listing endpoint is paged:
//
//	GET https://picsum.photos/v2/list?page=2&limit=10
//
// [Client] implements [feed.Source], so a picsum listing can drive a gallery
// directly. Responses are cached per page through the shared integrations client.
//
// [feed.Source]: github.com/matzehuels/waterfall/pkg/feed.Source
package picsum
