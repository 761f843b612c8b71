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

func (s *Service) ListSuppliers(ctx context.Context, query string, status string) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx, strings.TrimSpace(query), strings.TrimSpace(status))
}

func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	supplier, err := s.repo.GetSupplierByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Supplier{}, err
	}
	return *supplier, nil
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	req.TaxID = strings.TrimSpace(req.TaxID)
	req.LegalName = strings.TrimSpace(req.LegalName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	violations := validate.Violations{}
	validate.Required("tax_id", req.TaxID, violations)
	validate.Required("legal_name", req.LegalName, violations)
	validate.Email("email", req.Email, violations)
	validate.Phone("phone", req.Phone, violations)
	if !violations.Empty() {
		return domain.Supplier{}, &domain.ValidationError{Fields: violations}
	}

	if _, err := s.repo.FindSupplierByTaxID(ctx, req.TaxID, domain.StatusActive); err == nil {
		return domain.Supplier{}, &domain.ConflictError{Field: "tax_id", Value: req.TaxID}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Supplier{}, err
	}

	supplier := domain.Supplier{
		ID:          xid.New("sup"),
		TaxID:       req.TaxID,
		LegalName:   req.LegalName,
		ContactName: strings.TrimSpace(req.ContactName),
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     strings.TrimSpace(req.Address),
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Supplier{}, &domain.ConflictError{Field: "tax_id", Value: req.TaxID}
		}
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_create", "supplier", created.ID, fmt.Sprintf("tax_id=%s", created.TaxID))
	return *created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.SupplierUpdateRequest) (domain.Supplier, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	existing, err := s.repo.GetSupplierByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Supplier{}, err
	}
	if err := domain.CanUpdateRecord("supplier", existing.Status); err != nil {
		return domain.Supplier{}, err
	}

	updated := *existing
	violations := validate.Violations{}
	if req.LegalName != nil {
		updated.LegalName = strings.TrimSpace(*req.LegalName)
		validate.Required("legal_name", updated.LegalName, violations)
	}
	if req.ContactName != nil {
		updated.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
		validate.Phone("phone", updated.Phone, violations)
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
		validate.Email("email", updated.Email, violations)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if !violations.Empty() {
		return domain.Supplier{}, &domain.ValidationError{Fields: violations}
	}

	saved, err := s.repo.UpdateSupplier(ctx, updated)
	if err != nil {
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_update", "supplier", saved.ID, fmt.Sprintf("tax_id=%s", saved.TaxID))
	return *saved, nil
}

func (s *Service) DeactivateSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	existing, err := s.repo.GetSupplierByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Supplier{}, err
	}
	if err := domain.CanDeactivateRecord("supplier", existing.Status); err != nil {
		return domain.Supplier{}, err
	}

	updated := *existing
	updated.Status = domain.StatusInactive
	saved, err := s.repo.UpdateSupplier(ctx, updated)
	if err != nil {
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_deactivate", "supplier", saved.ID, fmt.Sprintf("tax_id=%s", saved.TaxID))
	return *saved, nil
}

func (s *Service) ListBrands(ctx context.Context, status string) ([]domain.Brand, error) {
	return s.repo.ListBrands(ctx, strings.TrimSpace(status))
}

func (s *Service) CreateBrand(ctx context.Context, req domain.BrandCreateRequest) (domain.Brand, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Brand{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	violations := validate.Violations{}
	validate.Required("name", req.Name, violations)
	if !violations.Empty() {
		return domain.Brand{}, &domain.ValidationError{Fields: violations}
	}

	if _, err := s.repo.FindBrandByName(ctx, req.Name, domain.StatusActive); err == nil {
		return domain.Brand{}, &domain.ConflictError{Field: "name", Value: req.Name}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Brand{}, err
	}

	brand := domain.Brand{
		ID:        xid.New("brand"),
		Name:      req.Name,
		LogoURL:   strings.TrimSpace(req.LogoURL),
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateBrand(ctx, brand)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Brand{}, &domain.ConflictError{Field: "name", Value: req.Name}
		}
		return domain.Brand{}, err
	}

	s.logAudit(ctx, "brand_create", "brand", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id string, req domain.BrandUpdateRequest) (domain.Brand, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Brand{}, err
	}

	existing, err := s.repo.GetBrandByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Brand{}, err
	}
	if err := domain.CanUpdateRecord("brand", existing.Status); err != nil {
		return domain.Brand{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Brand{}, &domain.ValidationError{Fields: map[string]string{"name": "required"}}
		}
		if !strings.EqualFold(name, existing.Name) {
			if other, err := s.repo.FindBrandByName(ctx, name, domain.StatusActive); err == nil && other.ID != existing.ID {
				return domain.Brand{}, &domain.ConflictError{Field: "name", Value: name}
			} else if err != nil && !errors.Is(err, store.ErrNotFound) {
				return domain.Brand{}, err
			}
		}
		updated.Name = name
	}
	if req.LogoURL != nil {
		updated.LogoURL = strings.TrimSpace(*req.LogoURL)
	}

	saved, err := s.repo.UpdateBrand(ctx, updated)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Brand{}, &domain.ConflictError{Field: "name", Value: updated.Name}
		}
		return domain.Brand{}, err
	}

	s.logAudit(ctx, "brand_update", "brand", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) DeactivateBrand(ctx context.Context, id string) (domain.Brand, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Brand{}, err
	}

	existing, err := s.repo.GetBrandByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Brand{}, err
	}
	if err := domain.CanDeactivateRecord("brand", existing.Status); err != nil {
		return domain.Brand{}, err
	}

	updated := *existing
	updated.Status = domain.StatusInactive
	saved, err := s.repo.UpdateBrand(ctx, updated)
	if err != nil {
		return domain.Brand{}, err
	}

	s.logAudit(ctx, "brand_deactivate", "brand", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}
