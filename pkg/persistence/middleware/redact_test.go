package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactionMiddleware_MasksTapes(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewRedactionMiddleware([]string{`[0-9]{4,}`})
	require.NoError(t, err)
	store := mw(underlying)

	ctx := context.Background()
	run := &domain.Run{ID: "r1", Input: "card=4111111111111111;", Output: "ok 12"}
	require.NoError(t, store.Save(ctx, run))

	stored, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "card=***;", stored.Input)
	assert.Equal(t, "ok 12", stored.Output)
	assert.Equal(t, "card=4111111111111111;", run.Input, "caller's run is untouched")
}

func TestRedactionMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactionMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_RedactThenEncrypt(t *testing.T) {
	redact, err := middleware.NewRedactionMiddleware([]string{"secret"})
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)

	store := middleware.Chain(memory.NewStore(), redact, encrypt)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "r", Input: "a secret b", Output: "secret"}))

	loaded, err := store.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, "a *** b", loaded.Input)
	assert.Equal(t, "***", loaded.Output)
}

func TestChain_SatisfiesRunStoreContract(t *testing.T) {
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)

	tests.RunStoreContract(t, middleware.Chain(memory.NewStore(), encrypt))
}
