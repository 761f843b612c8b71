package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/validate"
	"barbox/backend/internal/xid"
)

func (s *Service) ListPromotions(ctx context.Context, status string) ([]domain.Promotion, error) {
	return s.repo.ListPromotions(ctx, strings.TrimSpace(status))
}

func (s *Service) CreatePromotion(ctx context.Context, req domain.PromotionCreateRequest) (domain.Promotion, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Promotion{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	violations := validate.Violations{}
	validate.Required("name", req.Name, violations)
	validate.Percent("discount_percent", req.DiscountPercent, violations)

	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		violations.Add("starts_at", "must be RFC3339")
	}
	endsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.EndsAt))
	if err != nil {
		violations.Add("ends_at", "must be RFC3339")
	}
	if violations.Empty() && !endsAt.After(startsAt) {
		violations.Add("ends_at", "must be after starts_at")
	}
	if !violations.Empty() {
		return domain.Promotion{}, &domain.ValidationError{Fields: violations}
	}

	productIDs, err := s.resolveProductIDs(ctx, req.ProductIDs)
	if err != nil {
		return domain.Promotion{}, err
	}

	promo := domain.Promotion{
		ID:              xid.New("promo"),
		Name:            req.Name,
		Description:     strings.TrimSpace(req.Description),
		DiscountPercent: req.DiscountPercent,
		StartsAt:        startsAt.UTC(),
		EndsAt:          endsAt.UTC(),
		ProductIDs:      productIDs,
		Status:          domain.StatusActive,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.repo.CreatePromotion(ctx, promo)
	if err != nil {
		return domain.Promotion{}, err
	}

	s.logAudit(ctx, "promotion_create", "promotion", created.ID, fmt.Sprintf("name=%s,discount=%.2f", created.Name, created.DiscountPercent))
	return *created, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, id string, req domain.PromotionUpdateRequest) (domain.Promotion, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Promotion{}, err
	}

	existing, err := s.repo.GetPromotionByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Promotion{}, err
	}
	if err := domain.CanUpdateRecord("promotion", existing.Status); err != nil {
		return domain.Promotion{}, err
	}

	updated := *existing
	violations := validate.Violations{}
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
		validate.Required("name", updated.Name, violations)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.DiscountPercent != nil {
		updated.DiscountPercent = *req.DiscountPercent
		validate.Percent("discount_percent", updated.DiscountPercent, violations)
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.StartsAt))
		if err != nil {
			violations.Add("starts_at", "must be RFC3339")
		} else {
			updated.StartsAt = startsAt.UTC()
		}
	}
	if req.EndsAt != nil {
		endsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.EndsAt))
		if err != nil {
			violations.Add("ends_at", "must be RFC3339")
		} else {
			updated.EndsAt = endsAt.UTC()
		}
	}
	if violations.Empty() && !updated.EndsAt.After(updated.StartsAt) {
		violations.Add("ends_at", "must be after starts_at")
	}
	if !violations.Empty() {
		return domain.Promotion{}, &domain.ValidationError{Fields: violations}
	}

	if req.ProductIDs != nil {
		productIDs, err := s.resolveProductIDs(ctx, req.ProductIDs)
		if err != nil {
			return domain.Promotion{}, err
		}
		updated.ProductIDs = productIDs
	}

	saved, err := s.repo.UpdatePromotion(ctx, updated)
	if err != nil {
		return domain.Promotion{}, err
	}

	s.logAudit(ctx, "promotion_update", "promotion", saved.ID, fmt.Sprintf("name=%s,discount=%.2f", saved.Name, saved.DiscountPercent))
	return *saved, nil
}

func (s *Service) DeactivatePromotion(ctx context.Context, id string) (domain.Promotion, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Promotion{}, err
	}

	existing, err := s.repo.GetPromotionByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Promotion{}, err
	}
	if err := domain.CanDeactivateRecord("promotion", existing.Status); err != nil {
		return domain.Promotion{}, err
	}

	updated := *existing
	updated.Status = domain.StatusInactive
	saved, err := s.repo.UpdatePromotion(ctx, updated)
	if err != nil {
		return domain.Promotion{}, err
	}

	s.logAudit(ctx, "promotion_deactivate", "promotion", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

// resolveProductIDs deduplicates and verifies every referenced product.
func (s *Service) resolveProductIDs(ctx context.Context, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, err := s.repo.GetProductByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &domain.ValidationError{Fields: map[string]string{"product_ids": "unknown product " + id}}
			}
			return nil, err
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}
	return resolved, nil
}
