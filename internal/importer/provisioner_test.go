package importer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops-platform/api/internal/identity"
)

type fakeIdentityClient struct {
	calls     int
	responses []func() (string, error)
}

func (f *fakeIdentityClient) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	f.calls++
	resp := f.responses[f.calls-1]
	return resp()
}

func newTestProvisioner(client identity.Client) *Provisioner {
	return NewProvisioner(client, 0, 0, slog.New(slog.DiscardHandler))
}

func TestProvisionSuccess(t *testing.T) {
	client := &fakeIdentityClient{responses: []func() (string, error){
		func() (string, error) { return "idp-123", nil },
	}}

	id, password := newTestProvisioner(client).Provision(context.Background(), "a@b.c")
	assert.Equal(t, "idp-123", id)
	assert.NotEmpty(t, password)
	assert.Equal(t, 1, client.calls)
}

func TestProvisionRetriesRateLimitOnce(t *testing.T) {
	client := &fakeIdentityClient{responses: []func() (string, error){
		func() (string, error) { return "", identity.ErrRateLimited },
		func() (string, error) { return "idp-456", nil },
	}}

	id, _ := newTestProvisioner(client).Provision(context.Background(), "a@b.c")
	assert.Equal(t, "idp-456", id)
	assert.Equal(t, 2, client.calls)
}

func TestProvisionFallsBackAfterSecondRateLimit(t *testing.T) {
	client := &fakeIdentityClient{responses: []func() (string, error){
		func() (string, error) { return "", identity.ErrRateLimited },
		func() (string, error) { return "", identity.ErrRateLimited },
	}}

	id, _ := newTestProvisioner(client).Provision(context.Background(), "a@b.c")
	assert.True(t, strings.HasPrefix(id, "local-"), "got %q", id)
	assert.Equal(t, 2, client.calls, "one retry only")
}

func TestProvisionFallsBackOnOtherErrorsWithoutRetry(t *testing.T) {
	client := &fakeIdentityClient{responses: []func() (string, error){
		func() (string, error) { return "", errors.New("provider exploded") },
	}}

	id, _ := newTestProvisioner(client).Provision(context.Background(), "a@b.c")
	assert.True(t, strings.HasPrefix(id, "local-"))
	assert.Equal(t, 1, client.calls)
}

func TestProvisionNoEmailSkipsProvider(t *testing.T) {
	client := &fakeIdentityClient{}

	id, password := newTestProvisioner(client).Provision(context.Background(), "")
	assert.True(t, strings.HasPrefix(id, "local-"))
	require.NotEmpty(t, password)
	assert.Zero(t, client.calls)
}
