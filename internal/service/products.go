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

const catalogCacheKey = "catalog:active"
const catalogCacheTTL = 30 * time.Second

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	cacheable := filter == (domain.ProductFilter{Status: domain.StatusActive})
	if cacheable && s.catalog != nil {
		if products, hit, err := s.catalog.GetProducts(ctx, catalogCacheKey); err == nil && hit {
			return products, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable && s.catalog != nil {
		if err := s.catalog.SetProducts(ctx, catalogCacheKey, products, catalogCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache product catalog")
		}
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Barcode = strings.TrimSpace(req.Barcode)
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Subcategory = strings.TrimSpace(req.Subcategory)
	req.Brand = strings.TrimSpace(req.Brand)

	violations := validate.Violations{}
	validate.Required("barcode", req.Barcode, violations)
	validate.Required("name", req.Name, violations)
	validate.PositiveCents("price_cents", req.PriceCents, violations)
	validate.NonNegative("stock_quantity", req.StockQuantity, violations)
	if !violations.Empty() {
		return domain.Product{}, &domain.ValidationError{Fields: violations}
	}

	if _, err := s.repo.FindProductByBarcode(ctx, req.Barcode, domain.StatusActive); err == nil {
		return domain.Product{}, &domain.ConflictError{Field: "barcode", Value: req.Barcode}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:            xid.New("prod"),
		Barcode:       req.Barcode,
		Name:          req.Name,
		Description:   strings.TrimSpace(req.Description),
		PriceCents:    req.PriceCents,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Brand:         req.Brand,
		ImageURL:      strings.TrimSpace(req.ImageURL),
		Status:        domain.StatusActive,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Product{}, &domain.ConflictError{Field: "barcode", Value: req.Barcode}
		}
		return domain.Product{}, err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("barcode=%s,price=%d", created.Barcode, created.PriceCents))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, err := s.requireAdmin(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetProductByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}
	if err := domain.CanUpdateRecord("product", existing.Status); err != nil {
		return domain.Product{}, err
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
	if req.PriceCents != nil {
		updated.PriceCents = *req.PriceCents
		validate.PositiveCents("price_cents", updated.PriceCents, violations)
	}
	if req.StockQuantity != nil {
		updated.StockQuantity = *req.StockQuantity
		validate.NonNegative("stock_quantity", updated.StockQuantity, violations)
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
	}
	if req.Subcategory != nil {
		updated.Subcategory = strings.TrimSpace(*req.Subcategory)
	}
	if req.Brand != nil {
		updated.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.ImageURL != nil {
		updated.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if !violations.Empty() {
		return domain.Product{}, &domain.ValidationError{Fields: violations}
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	if existing.PriceCents != saved.PriceCents {
		if err := s.repo.CreatePriceHistory(ctx, domain.ProductPriceHistory{
			ID:            xid.New("ph"),
			ProductID:     saved.ID,
			OldPriceCents: existing.PriceCents,
			NewPriceCents: saved.PriceCents,
			ChangedBy:     actor.Username,
			ChangedAt:     time.Now().UTC(),
		}); err != nil {
			s.logger.Warn().Err(err).Str("product_id", saved.ID).Msg("failed to record price history")
		}
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("barcode=%s,price=%d", saved.Barcode, saved.PriceCents))
	return *saved, nil
}

func (s *Service) DeactivateProduct(ctx context.Context, id string) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetProductByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}
	if err := domain.CanDeactivateRecord("product", existing.Status); err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	updated.Status = domain.StatusInactive
	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "product_deactivate", "product", saved.ID, fmt.Sprintf("barcode=%s", saved.Barcode))
	return *saved, nil
}

func (s *Service) ListProductPriceHistory(ctx context.Context, id string, limit int) ([]domain.ProductPriceHistory, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"id": "required"}}
	}
	if limit < 1 {
		limit = 50
	}
	if _, err := s.repo.GetProductByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListPriceHistory(ctx, id, limit)
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx, catalogCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate product catalog cache")
	}
}
