package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	olleh "github.com/olleh-rw/olleh-go"
)

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	pair, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if pair != nil {
		t.Errorf("empty store Get() = %+v, want nil", pair)
	}

	want := olleh.TokenPair{Access: "acc", Refresh: "ref"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	pair, err = store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if pair == nil || *pair != want {
		t.Errorf("Get() = %+v, want %+v", pair, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	pair, _ = store.Get(ctx)
	if pair != nil {
		t.Errorf("Get() after Clear = %+v, want nil", pair)
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	_ = store.Set(ctx, olleh.TokenPair{Access: "acc", Refresh: "ref"})

	first, _ := store.Get(ctx)
	first.Access = "mutated"

	second, _ := store.Get(ctx)
	if second.Access != "acc" {
		t.Error("mutating a returned pair must not affect the store")
	}
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFile(path)
	ctx := context.Background()

	pair, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() on absent file error: %v", err)
	}
	if pair != nil {
		t.Errorf("Get() = %+v, want nil for absent file", pair)
	}

	want := olleh.TokenPair{Access: "acc", Refresh: "ref"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// A fresh store on the same path sees the session.
	pair, err = NewFile(path).Get(ctx)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if pair == nil || *pair != want {
		t.Errorf("Get() = %+v, want %+v", pair, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	pair, _ = store.Get(ctx)
	if pair != nil {
		t.Errorf("Get() after Clear = %+v, want nil", pair)
	}

	// Clearing twice is fine.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestAccessExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	got, err := AccessExpiry(signedToken(t, exp))
	if err != nil {
		t.Fatalf("AccessExpiry() error: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("AccessExpiry() = %v, want %v", got, exp)
	}
}

func TestAccessExpiry_Malformed(t *testing.T) {
	if _, err := AccessExpiry("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := AccessExpiry(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestExpiresWithin(t *testing.T) {
	soon := signedToken(t, time.Now().Add(time.Minute))
	later := signedToken(t, time.Now().Add(time.Hour))

	if !ExpiresWithin(soon, 5*time.Minute) {
		t.Error("token expiring in 1m should be within 5m window")
	}
	if ExpiresWithin(later, 5*time.Minute) {
		t.Error("token expiring in 1h should not be within 5m window")
	}
	if !ExpiresWithin("garbage", time.Minute) {
		t.Error("malformed tokens count as expired")
	}
}
