package importer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/gymops-platform/api/internal/auth"
	"github.com/gymops-platform/api/internal/identity"
)

// Provisioner mints sign-in identities during an import. It paces every
// provider call to stay under the provider's quota, retries a rate-limited
// call once after a cooldown, and when the provider still cannot serve the
// request it issues a local placeholder id instead. A row never fails
// because the identity provider is down.
type Provisioner struct {
	client   identity.Client
	pacing   time.Duration
	cooldown time.Duration
	log      *slog.Logger
}

func NewProvisioner(client identity.Client, pacing, cooldown time.Duration, log *slog.Logger) *Provisioner {
	// retry.NewConstant rejects non-positive intervals.
	if cooldown <= 0 {
		cooldown = time.Millisecond
	}
	return &Provisioner{client: client, pacing: pacing, cooldown: cooldown, log: log}
}

// Provision returns an identity id and the temporary password registered
// with it. Records without an email get a local id directly; the provider
// cannot register them.
func (p *Provisioner) Provision(ctx context.Context, email string) (id, tempPassword string) {
	tempPassword = p.temporaryPassword()
	if email == "" {
		return localID(), tempPassword
	}

	if err := p.pace(ctx); err != nil {
		return localID(), tempPassword
	}

	err := retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(p.cooldown)), func(ctx context.Context) error {
		created, err := p.client.CreateIdentity(ctx, email, tempPassword)
		if err != nil {
			if errors.Is(err, identity.ErrRateLimited) {
				return retry.RetryableError(err)
			}
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		p.log.Warn("identity provisioning degraded to local id", "email", email, "error", err)
		return localID(), tempPassword
	}
	return id, tempPassword
}

// pace blocks for the configured delay so consecutive provider calls are
// spread out. Cancellation wins over the delay.
func (p *Provisioner) pace(ctx context.Context) error {
	if p.pacing <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Provisioner) temporaryPassword() string {
	if tok, err := auth.GenerateToken(); err == nil {
		return tok
	}
	return uuid.NewString()
}

func localID() string {
	return "local-" + uuid.NewString()
}
