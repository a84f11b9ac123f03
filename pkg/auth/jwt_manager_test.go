package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.Generate("alice", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "alice" || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	exp, err := m.Expiry(token)
	if err != nil {
		t.Fatalf("expiry: %v", err)
	}
	if d := time.Until(exp); d <= 0 || d > time.Hour {
		t.Fatalf("unexpected expiry in %s", d)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).Generate("alice", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, err := m.Generate("alice", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := ExtractTokenFromHeader(r)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: want %q got %q err=%v", tc.header, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.header)
		}
	}
}
