package user

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Create(t *testing.T) {
	db := testutil.OpenDB(t, "users")
	repo := NewPostgresRepo(db, 5*time.Second)
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, "first-password")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "second-password")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	var stored string
	require.NoError(t, db.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, first.ID).Scan(&stored))
	assert.NotEqual(t, "first-password", stored)
	assert.Equal(t, first.Password, stored)
}
