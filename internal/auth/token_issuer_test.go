package auth

import (
	"context"
	"testing"
	"time"
)

func newTestIssuer(clock func() time.Time) *ClientTokenIssuer {
	return NewClientTokenIssuer(ClientTokenIssuerConfig{
		SigningSecret: []byte("unit-test-secret"),
		Issuer:        "bloom-api",
		Audience:      "bloom-client",
		TokenTTL:      time.Hour,
		Clock:         clock,
	})
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	issuer := newTestIssuer(nil)

	token, expiresIn, err := issuer.IssueClientToken(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expiresIn != int64(time.Hour.Seconds()) {
		t.Fatalf("expected ttl of %d seconds, got %d", int64(time.Hour.Seconds()), expiresIn)
	}

	clientID, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected token to validate: %v", err)
	}
	if clientID != 42 {
		t.Fatalf("expected client id 42, got %d", clientID)
	}
}

func TestIssueRejectsZeroClient(t *testing.T) {
	issuer := newTestIssuer(nil)

	if _, _, err := issuer.IssueClientToken(context.Background(), 0); err == nil {
		t.Fatalf("expected an error for client id 0")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2026, time.July, 14, 10, 0, 0, 0, time.UTC)
	current := issued

	issuer := newTestIssuer(func() time.Time { return current })
	token, _, err := issuer.IssueClientToken(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current = issued.Add(2 * time.Hour)
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := newTestIssuer(nil)
	other := NewClientTokenIssuer(ClientTokenIssuerConfig{
		SigningSecret: []byte("a-different-secret"),
		Issuer:        "bloom-api",
		Audience:      "bloom-client",
		TokenTTL:      time.Hour,
	})

	token, _, err := other.IssueClientToken(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	issuer := newTestIssuer(nil)
	other := NewClientTokenIssuer(ClientTokenIssuerConfig{
		SigningSecret: []byte("unit-test-secret"),
		Issuer:        "bloom-api",
		Audience:      "bloom-admin",
		TokenTTL:      time.Hour,
	})

	token, _, err := other.IssueClientToken(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatalf("expected token for another audience to be rejected")
	}
}
