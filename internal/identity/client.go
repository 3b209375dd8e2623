// Package identity talks to the external auth provider that issues
// sign-in identities for members and staff. The import pipeline treats the
// provider as best-effort: see importer.Provisioner for the pacing, retry,
// and local-fallback policy layered on top of this client.
package identity

import (
	"context"
	"errors"
)

// ErrRateLimited is returned when the provider rejected the call for
// exceeding its request quota. It is the only error the provisioner
// retries.
var ErrRateLimited = errors.New("identity provider rate limited")

// Client creates identities at the external auth provider.
type Client interface {
	// CreateIdentity registers email with a temporary password and returns
	// the provider's identity id.
	CreateIdentity(ctx context.Context, email, password string) (string, error)
}
