package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/classroom-chat/internal/session"
)

type recordingRevoker struct {
	tokens []string
}

func (r *recordingRevoker) Revoke(_ context.Context, token string) error {
	r.tokens = append(r.tokens, token)
	return nil
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name, username, password string
	}{
		{"missing username", "  ", "secret1"},
		{"missing password", "alice", ""},
		{"short password", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := f.auth.Register(ctx, tc.username, tc.password); KindOf(err) != KindValidation {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture()
	registerUsers(t, f, "alice")

	err := f.auth.Register(context.Background(), " alice ", "another1")
	var se *Error
	if !errors.As(err, &se) || se.Kind != KindValidation || se.Message != "username exists" {
		t.Fatalf("expected username exists, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	registerUsers(t, f, "alice")

	if _, err := f.auth.Login(ctx, "", "x"); KindOf(err) != KindValidation {
		t.Fatalf("missing username: got %v", err)
	}
	if _, err := f.auth.Login(ctx, "alice", "wrongpw"); KindOf(err) != KindAuthentication {
		t.Fatalf("bad password: got %v", err)
	}
	if _, err := f.auth.Login(ctx, "nobody", "secret1"); KindOf(err) != KindAuthentication {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestLoginSetsOnlineAndLogoutClears(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	registerUsers(t, f, "alice")

	res, err := f.auth.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.IsAdmin {
		t.Fatalf("alice must not be admin")
	}

	users, _ := f.auth.ListUsers(ctx, as("alice"))
	if len(users) != 1 || !users[0].IsOnline {
		t.Fatalf("expected alice online: %+v", users)
	}

	revoker := &recordingRevoker{}
	f.auth.WithRevoker(revoker).Logout(ctx, as("alice"), res.Token)

	users, _ = f.auth.ListUsers(ctx, as("alice"))
	if users[0].IsOnline {
		t.Fatalf("expected alice offline after logout")
	}
	if len(revoker.tokens) != 1 || revoker.tokens[0] != res.Token {
		t.Fatalf("token not revoked: %v", revoker.tokens)
	}

	actions := f.store.actions()
	if actions[len(actions)-1] != ActionLogout {
		t.Fatalf("last action: %v", actions)
	}
}

func TestLogoutAnonymousIsNoop(t *testing.T) {
	f := newFixture()
	f.auth.Logout(context.Background(), session.Identity{}, "")
	if f.broadcast.count() != 0 || len(f.store.actions()) != 0 {
		t.Fatalf("anonymous logout had side effects")
	}
}

func TestListUsersRequiresIdentity(t *testing.T) {
	f := newFixture()
	if _, err := f.auth.ListUsers(context.Background(), session.Identity{}); KindOf(err) != KindAuthentication {
		t.Fatalf("expected authentication failure, got %v", err)
	}
}

func TestPasswordWithSurroundingSpacesRoundTrips(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.auth.Register(ctx, "carol", " secret1 "); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.auth.Login(ctx, "carol", " secret1 "); err != nil {
		t.Fatalf("login with the registered password: %v", err)
	}
	if _, err := f.auth.Login(ctx, "carol", "secret1"); KindOf(err) != KindAuthentication {
		t.Fatalf("trimmed password must not match, got %v", err)
	}
}

func TestPasswordLengthCountsSpaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if err := f.auth.Register(ctx, "dave", "  abcd"); err != nil {
		t.Fatalf("six characters including spaces must be accepted: %v", err)
	}
	if err := f.auth.Register(ctx, "erin", "   "); KindOf(err) != KindValidation {
		t.Fatalf("blank password: expected validation failure, got %v", err)
	}
}

func TestStoredPasswordIsHashed(t *testing.T) {
	f := newFixture()
	registerUsers(t, f, "alice")

	user, err := f.store.FindUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.PasswordHash == "" || strings.Contains(user.PasswordHash, "secret1") {
		t.Fatalf("password stored in plaintext: %q", user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}
