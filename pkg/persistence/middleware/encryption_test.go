package middleware_test

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.RunStore, cfg middleware.EncryptionConfig) ports.RunStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return mw(next)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	original := &domain.Run{ID: "run-1", MachineID: "inc", Input: "1011", Output: "secret-tape", Acceptance: 1, Status: domain.StatusHaltedAccept, Steps: 4}

	// 1. Save
	if err := secureStore.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify Underlying Store directly (Should be encrypted)
	stored, err := underlyingStore.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if stored.Input != "" || strings.Contains(stored.Output, "secret-tape") {
		t.Fatalf("Expected tapes to be hidden, found: %q / %q", stored.Input, stored.Output)
	}
	if !strings.HasPrefix(stored.Output, "enc:v1:") {
		t.Fatal("Expected envelope in Output")
	}
	if stored.Status != domain.StatusHaltedAccept || stored.Steps != 4 || stored.MachineID != "inc" {
		t.Errorf("Expected metadata to stay readable, got %+v", stored)
	}

	// 3. Load via Middleware (Should be decrypted)
	loaded, err := secureStore.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Input != "1011" || loaded.Output != "secret-tape" {
		t.Errorf("Expected original tapes, got %q / %q", loaded.Input, loaded.Output)
	}
	if original.Output != "secret-tape" {
		t.Error("Save must not modify the caller's run")
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: oldKey})

	ctx := context.Background()
	run := &domain.Run{ID: "rotation-run", Output: "encrypted-with-old-key"}

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (Active) + OLD key (Fallback)
	secureStoreNew := encrypted(t, underlyingStore, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})

	loaded, err := secureStoreNew.Load(ctx, "rotation-run")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Output != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// 3. Save again (now under the NEW key)
	loaded.Output = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just OLD key anymore
	if _, err := secureStoreOld.Load(ctx, "rotation-run"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainRecordFailsSecure(t *testing.T) {
	underlyingStore := memory.NewStore()
	if err := underlyingStore.Save(context.Background(), &domain.Run{ID: "plain", Output: "111"}); err != nil {
		t.Fatal(err)
	}

	secureStore := encrypted(t, underlyingStore, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secureStore.Load(context.Background(), "plain")
	if !errors.Is(err, middleware.ErrNotEncrypted) {
		t.Fatalf("Expected ErrNotEncrypted, got %v", err)
	}

	_, err = secureStore.Load(context.Background(), "absent")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Fatalf("Expected ErrRunNotFound to pass through, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	if _, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")}); err == nil {
		t.Error("Expected error for invalid key size")
	}
}
