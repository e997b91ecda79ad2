package apikey

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/testutil"
)

func setup(t *testing.T) Service {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	return NewService(api.NewClient(api.Config{BaseURL: backend.URL()}, &testutil.StaticToken{}))
}

func TestCreateKey(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	key, err := svc.CreateKey(ctx, " assistant ")
	require.NoError(t, err)
	assert.Equal(t, "assistant", key.Name)
	assert.NotEmpty(t, key.Secret)

	keys, err := svc.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].Secret, "listing never returns secrets")
}

func TestCreateKey_Validation(t *testing.T) {
	svc := setup(t)

	_, err := svc.CreateKey(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.CreateKey(context.Background(), strings.Repeat("k", 65))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestRevokeKey(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	key, err := svc.CreateKey(ctx, "ci")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeKey(ctx, key.ID))
	assert.True(t, api.IsNotFound(svc.RevokeKey(ctx, key.ID)))
	assert.ErrorIs(t, svc.RevokeKey(ctx, ""), ErrInvalidKeyID)
}
