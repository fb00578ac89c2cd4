package provider

import (
	"context"
)

// TrustedOrigins is the provider-configured set of origins permitted for
// cross-origin requests. Exactly one concrete variant is used: a static
// OriginList or a per-request OriginFunc.
type TrustedOrigins interface {
	trustedOrigins()
}

// OriginList is a static list of trusted origins.
type OriginList []string

func (OriginList) trustedOrigins() {}

// Contains reports whether origin is in the list.
func (l OriginList) Contains(origin string) bool {
	for _, o := range l {
		if o == origin {
			return true
		}
	}

	return false
}

// OriginFunc computes the trusted origins for a single request.
type OriginFunc func(ctx context.Context, req *Request) ([]string, error)

func (OriginFunc) trustedOrigins() {}
