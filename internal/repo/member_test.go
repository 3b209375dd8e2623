package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymops-platform/api/internal/domain"
)

// recordingDB captures the statement and named args of the last call so
// tests can assert on query shape without a live database.
type recordingDB struct {
	sql  string
	args pgx.NamedArgs
}

func (r *recordingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.capture(sql, args)
	return pgconn.CommandTag{}, nil
}

func (r *recordingDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.capture(sql, args)
	return nil, pgx.ErrNoRows
}

func (r *recordingDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	r.capture(sql, args)
	return zeroRow{}
}

func (r *recordingDB) capture(sql string, args []any) {
	r.sql = sql
	if len(args) == 1 {
		if named, ok := args[0].(pgx.NamedArgs); ok {
			r.args = named
		}
	}
}

// zeroRow scans nothing, leaving every destination at its zero value.
type zeroRow struct{}

func (zeroRow) Scan(dest ...any) error { return nil }

func TestMemberUpdatePreservesAbsentOptionals(t *testing.T) {
	fake := &recordingDB{}
	r := &pgMemberRepo{db: fake}

	_, err := r.Update(context.Background(), domain.Member{
		FirstName: "Alice",
		LastName:  "Jones",
		Status:    domain.StatusActive,
	})
	require.NoError(t, err)

	// A row without a phone column must not blank a stored phone; it is
	// a duplicate-detection natural key like email.
	assert.Contains(t, fake.sql, "phone             = COALESCE(NULLIF(@phone, ''), phone)")
	assert.Contains(t, fake.sql, "email             = COALESCE(@email, email)")
	assert.Equal(t, "", fake.args["phone"])

	// Identity fields come back in RETURNING but are never assigned.
	set, _, found := strings.Cut(fake.sql, "WHERE")
	require.True(t, found)
	assert.NotContains(t, set, "identity_id")
	assert.NotContains(t, set, "qr_payload")
}
