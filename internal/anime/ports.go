package anime

import (
	"context"
	"net/url"

	"jikanproxy/internal/platform/jikan"
)

//go:generate mockgen -source=ports.go -destination=mocks_test.go -package=anime

// Upstream is the contract for fetching raw Jikan payloads.
type Upstream interface {
	Get(ctx context.Context, path string, params url.Values) (*jikan.Payload, error)
}
