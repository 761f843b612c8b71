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

func (s *Service) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	return s.repo.ListClients(ctx, filter)
}

func (s *Service) GetClient(ctx context.Context, id string) (domain.Client, error) {
	client, err := s.repo.GetClientByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

func (s *Service) CreateClient(ctx context.Context, req domain.ClientCreateRequest) (domain.Client, error) {
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.GivenNames = strings.TrimSpace(req.GivenNames)
	req.FamilyNames = strings.TrimSpace(req.FamilyNames)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)

	violations := validate.Violations{}
	validate.Required("given_names", req.GivenNames, violations)
	validate.Required("family_names", req.FamilyNames, violations)
	s.validateNationalID("national_id", req.NationalID, violations)
	validate.Email("email", req.Email, violations)
	validate.Phone("phone", req.Phone, violations)
	if !violations.Empty() {
		return domain.Client{}, &domain.ValidationError{Fields: violations}
	}

	if _, err := s.repo.FindClientByNationalID(ctx, req.NationalID, domain.StatusActive); err == nil {
		return domain.Client{}, &domain.ConflictError{Field: "national_id", Value: req.NationalID}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, err
	}

	client := domain.Client{
		ID:           xid.New("cli"),
		NationalID:   req.NationalID,
		GivenNames:   req.GivenNames,
		FamilyNames:  req.FamilyNames,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Status:       domain.StatusActive,
		RegisteredAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Client{}, &domain.ConflictError{Field: "national_id", Value: req.NationalID}
		}
		return domain.Client{}, err
	}

	s.logAudit(ctx, "client_create", "client", created.ID, fmt.Sprintf("national_id=%s", created.NationalID))
	return *created, nil
}

func (s *Service) UpdateClient(ctx context.Context, id string, req domain.ClientUpdateRequest) (domain.Client, error) {
	existing, err := s.repo.GetClientByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Client{}, err
	}
	if err := domain.CanUpdateRecord("client", existing.Status); err != nil {
		return domain.Client{}, err
	}

	updated := *existing
	violations := validate.Violations{}

	if req.NationalID != nil {
		nationalID := strings.TrimSpace(*req.NationalID)
		if nationalID != existing.NationalID {
			if !s.allowNationalIDUpdate {
				violations.Add("national_id", "immutable")
			} else {
				s.validateNationalID("national_id", nationalID, violations)
				updated.NationalID = nationalID
			}
		}
	}
	if req.GivenNames != nil {
		updated.GivenNames = strings.TrimSpace(*req.GivenNames)
		validate.Required("given_names", updated.GivenNames, violations)
	}
	if req.FamilyNames != nil {
		updated.FamilyNames = strings.TrimSpace(*req.FamilyNames)
		validate.Required("family_names", updated.FamilyNames, violations)
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
		validate.Email("email", updated.Email, violations)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
		validate.Phone("phone", updated.Phone, violations)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if !violations.Empty() {
		return domain.Client{}, &domain.ValidationError{Fields: violations}
	}

	if updated.NationalID != existing.NationalID {
		if other, err := s.repo.FindClientByNationalID(ctx, updated.NationalID, domain.StatusActive); err == nil && other.ID != existing.ID {
			return domain.Client{}, &domain.ConflictError{Field: "national_id", Value: updated.NationalID}
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, err
		}
	}

	saved, err := s.repo.UpdateClient(ctx, updated)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Client{}, &domain.ConflictError{Field: "national_id", Value: updated.NationalID}
		}
		return domain.Client{}, err
	}

	s.logAudit(ctx, "client_update", "client", saved.ID, fmt.Sprintf("national_id=%s", saved.NationalID))
	return *saved, nil
}

// DeactivateClient is the soft delete: the record stays, the status flips.
func (s *Service) DeactivateClient(ctx context.Context, id string) (domain.Client, error) {
	existing, err := s.repo.GetClientByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Client{}, err
	}
	if err := domain.CanDeactivateRecord("client", existing.Status); err != nil {
		return domain.Client{}, err
	}

	updated := *existing
	updated.Status = domain.StatusInactive
	saved, err := s.repo.UpdateClient(ctx, updated)
	if err != nil {
		return domain.Client{}, err
	}

	s.logAudit(ctx, "client_deactivate", "client", saved.ID, fmt.Sprintf("national_id=%s", saved.NationalID))
	return *saved, nil
}

func (s *Service) validateNationalID(field, value string, v validate.Violations) {
	if s.strictNationalID {
		validate.NationalIDStrict(field, value, v)
		return
	}
	validate.NationalID(field, value, v)
}
