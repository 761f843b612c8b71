package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
)

// stubUserStore lets auth tests control the persisted credential set and
// observe password upgrades.
type stubUserStore struct {
	mu    sync.Mutex
	users map[string]domain.UserAccount
}

func newStubUserStore(users ...domain.UserAccount) *stubUserStore {
	s := &stubUserStore{users: make(map[string]domain.UserAccount)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *stubUserStore) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return store.ErrDuplicate
	}
	s.users[user.Username] = user
	return nil
}

func (s *stubUserStore) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserStore) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, exists := s.users[username]
	if !exists {
		return store.ErrNotFound
	}
	u.Password = password
	s.users[username] = u
	return nil
}

func TestBootstrapUpgradesPlaintextPasswords(t *testing.T) {
	users := newStubUserStore(domain.UserAccount{
		Username: "admin", Password: "plain-secret", Role: domain.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	})

	auth, err := NewAuthManager(context.Background(), testSecret, time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	stored := users.users["admin"].Password
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("expected bcrypt hash after bootstrap, got %q", stored)
	}

	// The original plaintext still logs in through the upgraded hash.
	resp, err := auth.Login(context.Background(), domain.LoginRequest{Username: "admin", Password: "plain-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", resp.Role)
	}
}

func TestLoginRejectsInactiveAccounts(t *testing.T) {
	users := newStubUserStore(domain.UserAccount{
		Username: "exstaff", Password: "secret123", Role: domain.RoleStaff, Active: false, CreatedAt: time.Now().UTC(),
	})

	auth, err := NewAuthManager(context.Background(), testSecret, time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	if _, err := auth.Login(context.Background(), domain.LoginRequest{Username: "exstaff", Password: "secret123"}); err == nil {
		t.Fatal("expected login to fail for inactive account")
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	users := newStubUserStore(domain.UserAccount{
		Username: "admin", Password: "plain-secret", Role: domain.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	})
	auth, err := NewAuthManager(context.Background(), testSecret, time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	resp, err := auth.Login(context.Background(), domain.LoginRequest{Username: "Admin", Password: "plain-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "admin" || actor.Role != domain.RoleAdmin {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	users := newStubUserStore(domain.UserAccount{
		Username: "admin", Password: "plain-secret", Role: domain.RoleAdmin, Active: true, CreatedAt: time.Now().UTC(),
	})

	authA, err := NewAuthManager(context.Background(), testSecret, time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}
	authB, err := NewAuthManager(context.Background(), "another-secret-also-32-chars-long!!", time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	resp, err := authA.Login(context.Background(), domain.LoginRequest{Username: "admin", Password: "plain-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := authB.ParseToken(resp.AccessToken); err == nil {
		t.Fatal("expected token signed by A to be rejected by B")
	}
	if _, err := authA.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}

func TestNewAuthManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewAuthManager(context.Background(), "short", time.Hour, newStubUserStore()); err == nil {
		t.Fatal("expected short secret to be rejected")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	users := newStubUserStore()
	auth, err := NewAuthManager(context.Background(), testSecret, time.Hour, users)
	if err != nil {
		t.Fatalf("new auth manager: %v", err)
	}

	cases := []domain.StaffCreateRequest{
		{Username: "ab", Password: "secret123"},
		{Username: "has space", Password: "secret123"},
		{Username: "cajero1", Password: "12345"},
	}
	for _, req := range cases {
		if _, err := auth.CreateStaff(context.Background(), req); err == nil {
			t.Errorf("expected %+v to be rejected", req)
		}
	}

	staff, err := auth.CreateStaff(context.Background(), domain.StaffCreateRequest{Username: "Cajero1", Password: "secret123"})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if staff.Username != "cajero1" || staff.Role != domain.RoleStaff || !staff.Active {
		t.Fatalf("unexpected staff: %+v", staff)
	}

	if _, err := auth.CreateStaff(context.Background(), domain.StaffCreateRequest{Username: "cajero1", Password: "secret123"}); err == nil {
		t.Fatal("expected duplicate username to be rejected")
	}

	listed, err := auth.ListStaff(context.Background())
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(listed) != 1 || listed[0].Username != "cajero1" {
		t.Fatalf("unexpected staff list: %+v", listed)
	}
}
