package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contribscope/backend/internal/adapter/postgres/testhelper"
	"github.com/contribscope/backend/internal/domain"
)

func TestStore_UnknownKeyPanics(t *testing.T) {
	t.Parallel()

	s := New(nil)
	assert.Panics(t, func() {
		_ = s.GetByKey(context.Background(), "nope", &struct{}{})
	})
	assert.Panics(t, func() {
		_ = s.SetByKey(context.Background(), "nope", 1)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	s := New(pool)
	ctx := context.Background()

	users := []domain.User{
		{
			UserID:      "john_doe",
			LaunchpadID: "john_doe",
			UserName:    "John Doe",
			Emails:      []string{"johndoe@gmail.com", "jdoe@super.no"},
			Companies: []domain.Affiliation{
				{CompanyName: domain.IndependentCompany, EndDate: 1234567890},
				{CompanyName: "SuperCompany", EndDate: 0},
			},
		},
	}

	require.NoError(t, s.SetByKey(ctx, KeyUsers, users))

	var got []domain.User
	require.NoError(t, s.GetByKey(ctx, KeyUsers, &got))
	assert.Equal(t, users, got)

	// Upsert replaces the previous value.
	users[0].Emails = append(users[0].Emails, "johndoe@nec.co.jp")
	require.NoError(t, s.SetByKey(ctx, KeyUsers, users))

	got = nil
	require.NoError(t, s.GetByKey(ctx, KeyUsers, &got))
	require.Len(t, got, 1)
	assert.Len(t, got[0].Emails, 3)
}

func TestStore_AbsentKeyLeavesDestUntouched(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	s := New(pool)

	var releases []domain.Release
	require.NoError(t, s.GetByKey(context.Background(), KeyReleases, &releases))
	assert.Empty(t, releases)
}

func TestStore_DigestRoundTrip(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	s := New(pool)
	ctx := context.Background()

	require.NoError(t, s.SetByKey(ctx, KeyDefaultDataDigest, "cafebabe"))

	var digest string
	require.NoError(t, s.GetByKey(ctx, KeyDefaultDataDigest, &digest))
	assert.Equal(t, "cafebabe", digest)
}
