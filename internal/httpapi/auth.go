package httpapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"barbox/backend/internal/domain"
)

// UserStore persists credential records. The in-memory map inside
// AuthManager is a cache over this store and is refreshed on login.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}

type credential struct {
	passwordHash string
	role         string
	active       bool
	createdAt    time.Time
}

type AuthManager struct {
	secret   []byte
	tokenTTL time.Duration

	userStore UserStore

	mu    sync.RWMutex
	users map[string]credential
}

type backofficeClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func NewAuthManager(ctx context.Context, secret string, tokenTTL time.Duration, userStore UserStore) (*AuthManager, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 16 {
		return nil, errors.New("auth secret must be at least 16 characters")
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	if userStore == nil {
		return nil, errors.New("user store is required")
	}

	m := &AuthManager{
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		userStore: userStore,
		users:     make(map[string]credential),
	}
	if err := m.bootstrapUsers(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// bootstrapUsers loads credential records and upgrades any plaintext
// passwords left by manual seeding to bcrypt hashes.
func (m *AuthManager) bootstrapUsers(ctx context.Context) error {
	records, err := m.userStore.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	next := make(map[string]credential, len(records))
	for _, record := range records {
		username := strings.ToLower(strings.TrimSpace(record.Username))
		if username == "" {
			continue
		}

		stored := record.Password
		if !isPasswordHash(stored) {
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte(stored), bcrypt.DefaultCost)
			if hashErr != nil {
				return fmt.Errorf("hash password for %s: %w", username, hashErr)
			}
			stored = string(hashed)
			if updateErr := m.userStore.UpdateUserPassword(ctx, username, stored); updateErr != nil {
				return fmt.Errorf("upgrade password for %s: %w", username, updateErr)
			}
		}

		next[username] = credential{
			passwordHash: stored,
			role:         record.Role,
			active:       record.Active,
			createdAt:    record.CreatedAt,
		}
	}

	m.mu.Lock()
	m.users = next
	m.mu.Unlock()
	return nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

func (m *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	password := req.Password
	if username == "" || password == "" {
		return domain.LoginResponse{}, errors.New("username and password are required")
	}

	// Pick up accounts created since startup.
	if err := m.bootstrapUsers(ctx); err != nil {
		return domain.LoginResponse{}, err
	}

	m.mu.RLock()
	cred, found := m.users[username]
	m.mu.RUnlock()

	if !found || !cred.active {
		return domain.LoginResponse{}, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.passwordHash), []byte(password)); err != nil {
		return domain.LoginResponse{}, errors.New("invalid credentials")
	}

	expiresAt := time.Now().Add(m.tokenTTL)
	claims := backofficeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "barbox",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: cred.role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.LoginResponse{
		AccessToken: signed,
		Role:        cred.role,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (m *AuthManager) ParseToken(tokenString string) (domain.Actor, error) {
	if strings.TrimSpace(tokenString) == "" {
		return domain.Actor{}, errors.New("token is required")
	}

	claims := &backofficeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, errors.New("invalid or expired token")
	}
	if !token.Valid || claims.Subject == "" {
		return domain.Actor{}, errors.New("invalid token claims")
	}

	return domain.Actor{Username: claims.Subject, Role: claims.Role}, nil
}

// CreateStaff registers a new staff account. Admin accounts are seeded
// out of band, never created through the API.
func (m *AuthManager) CreateStaff(ctx context.Context, req domain.StaffCreateRequest) (domain.StaffUser, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 4 || strings.ContainsAny(username, " \t") {
		return domain.StaffUser{}, errors.New("username must be at least 4 characters with no spaces")
	}
	if len(req.Password) < 6 {
		return domain.StaffUser{}, errors.New("password must be at least 6 characters")
	}

	m.mu.RLock()
	_, exists := m.users[username]
	m.mu.RUnlock()
	if exists {
		return domain.StaffUser{}, errors.New("username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StaffUser{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	record := domain.UserAccount{
		Username:  username,
		Password:  string(hashed),
		Role:      domain.RoleStaff,
		Active:    true,
		CreatedAt: now,
	}
	if err := m.userStore.CreateUser(ctx, record); err != nil {
		return domain.StaffUser{}, err
	}

	m.mu.Lock()
	m.users[username] = credential{
		passwordHash: record.Password,
		role:         record.Role,
		active:       true,
		createdAt:    now,
	}
	m.mu.Unlock()

	return domain.StaffUser{Username: username, Role: domain.RoleStaff, Active: true, CreatedAt: now}, nil
}

func (m *AuthManager) ListStaff(ctx context.Context) ([]domain.StaffUser, error) {
	if err := m.bootstrapUsers(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	staff := make([]domain.StaffUser, 0, len(m.users))
	for username, cred := range m.users {
		if cred.role != domain.RoleStaff {
			continue
		}
		staff = append(staff, domain.StaffUser{
			Username:  username,
			Role:      cred.role,
			Active:    cred.active,
			CreatedAt: cred.createdAt,
		})
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Username < staff[j].Username })
	return staff, nil
}
