package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Options tune validation and mutability rules without touching call sites.
type Options struct {
	StrictNationalID      bool
	AllowNationalIDUpdate bool
}

type Service struct {
	repo                  store.Repository
	catalog               CatalogCache
	logger                zerolog.Logger
	strictNationalID      bool
	allowNationalIDUpdate bool
}

// CatalogCache is satisfied by the cache package. A nil-safe noop is used
// when no cache backend is configured.
type CatalogCache interface {
	GetProducts(ctx context.Context, key string) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, key string, products []domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

func New(repo store.Repository, catalog CatalogCache, logger zerolog.Logger, opts Options) *Service {
	return &Service{
		repo:                  repo,
		catalog:               catalog,
		logger:                logger,
		strictNationalID:      opts.StrictNationalID,
		allowNationalIDUpdate: opts.AllowNationalIDUpdate,
	}
}

func (s *Service) requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Actor{}, fmt.Errorf("admin role required")
	}
	return actor, nil
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		s.logger.Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("failed to write audit log")
	}
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 100
	}

	from, err := parseDayOrDefault(date, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func parseDayOrDefault(date string, fallback time.Time) (time.Time, error) {
	if date == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Fields: map[string]string{"date": "must be YYYY-MM-DD"}}
	}
	return parsed.UTC(), nil
}
