package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/validate"
	"barbox/backend/internal/xid"
)

// invoiceNumberAttempts bounds the retry loop on number collisions. The
// random suffix gives 9000 values per day, so collisions are rare.
const invoiceNumberAttempts = 5

func (s *Service) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func (s *Service) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.repo.GetInvoiceByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) CreateInvoice(ctx context.Context, req domain.InvoiceCreateRequest) (domain.Invoice, error) {
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)

	violations := validate.Violations{}
	validate.Required("client_id", req.ClientID, violations)
	if len(req.Lines) == 0 {
		violations.Add("lines", "at least one line required")
	}
	for i, line := range req.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			violations.Add(fmt.Sprintf("lines[%d].product_id", i), "required")
		}
		if line.Quantity < 1 {
			violations.Add(fmt.Sprintf("lines[%d].quantity", i), "must be at least 1")
		}
	}
	if !violations.Empty() {
		return domain.Invoice{}, &domain.ValidationError{Fields: violations}
	}

	client, err := s.repo.GetClientByID(ctx, req.ClientID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if client.Status != domain.StatusActive {
		return domain.Invoice{}, &domain.TransitionError{Entity: "client", Operation: "invoice", Status: client.Status}
	}

	lines, err := s.resolveInvoiceLines(ctx, req.Lines)
	if err != nil {
		return domain.Invoice{}, err
	}

	subtotal, tax, total := domain.ComputeInvoiceTotals(lines)
	now := time.Now().UTC()

	invoice := domain.Invoice{
		ID:            xid.New("inv"),
		ClientID:      client.ID,
		IssuedAt:      now,
		Lines:         lines,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: req.PaymentMethod,
	}

	var created *domain.Invoice
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		invoice.InvoiceNumber = newInvoiceNumber(now)
		created, err = s.repo.CreateInvoice(ctx, invoice)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return domain.Invoice{}, err
		}
	}
	if created == nil {
		return domain.Invoice{}, fmt.Errorf("could not allocate a unique invoice number: %w", err)
	}

	s.logAudit(ctx, "invoice_create", "invoice", created.ID, fmt.Sprintf("number=%s,total=%d", created.InvoiceNumber, created.TotalCents))
	return *created, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, req domain.InvoiceUpdateRequest) (domain.Invoice, error) {
	existing, err := s.repo.GetInvoiceByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := domain.CanUpdateInvoice(existing.PaymentStatus); err != nil {
		return domain.Invoice{}, err
	}

	updated := *existing
	if req.ClientID != nil {
		clientID := strings.TrimSpace(*req.ClientID)
		if clientID == "" {
			return domain.Invoice{}, &domain.ValidationError{Fields: map[string]string{"client_id": "required"}}
		}
		client, err := s.repo.GetClientByID(ctx, clientID)
		if err != nil {
			return domain.Invoice{}, err
		}
		if client.Status != domain.StatusActive {
			return domain.Invoice{}, &domain.TransitionError{Entity: "client", Operation: "invoice", Status: client.Status}
		}
		updated.ClientID = client.ID
	}
	if req.PaymentMethod != nil {
		updated.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if len(req.Lines) > 0 {
		violations := validate.Violations{}
		for i, line := range req.Lines {
			if strings.TrimSpace(line.ProductID) == "" {
				violations.Add(fmt.Sprintf("lines[%d].product_id", i), "required")
			}
			if line.Quantity < 1 {
				violations.Add(fmt.Sprintf("lines[%d].quantity", i), "must be at least 1")
			}
		}
		if !violations.Empty() {
			return domain.Invoice{}, &domain.ValidationError{Fields: violations}
		}

		lines, err := s.resolveInvoiceLines(ctx, req.Lines)
		if err != nil {
			return domain.Invoice{}, err
		}
		updated.Lines = lines
	}

	updated.SubtotalCents, updated.TaxCents, updated.TotalCents = domain.ComputeInvoiceTotals(updated.Lines)

	saved, err := s.repo.UpdateInvoice(ctx, updated)
	if err != nil {
		return domain.Invoice{}, err
	}

	s.logAudit(ctx, "invoice_update", "invoice", saved.ID, fmt.Sprintf("number=%s,total=%d", saved.InvoiceNumber, saved.TotalCents))
	return *saved, nil
}

func (s *Service) MarkInvoicePaid(ctx context.Context, id string, paymentMethod string) (domain.Invoice, error) {
	existing, err := s.repo.GetInvoiceByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := domain.CanMarkInvoicePaid(existing.PaymentStatus); err != nil {
		return domain.Invoice{}, err
	}

	updated := *existing
	updated.PaymentStatus = domain.PaymentPaid
	if method := strings.TrimSpace(paymentMethod); method != "" {
		updated.PaymentMethod = method
	}

	saved, err := s.repo.UpdateInvoice(ctx, updated)
	if err != nil {
		return domain.Invoice{}, err
	}

	s.logAudit(ctx, "invoice_pay", "invoice", saved.ID, fmt.Sprintf("number=%s,method=%s", saved.InvoiceNumber, saved.PaymentMethod))
	return *saved, nil
}

func (s *Service) VoidInvoice(ctx context.Context, id string, reason string) (domain.Invoice, error) {
	existing, err := s.repo.GetInvoiceByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := domain.CanVoidInvoice(existing.PaymentStatus); err != nil {
		return domain.Invoice{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unspecified"
	}

	voidedAt := time.Now().UTC()
	updated := *existing
	updated.PaymentStatus = domain.PaymentVoid
	updated.VoidReason = reason
	updated.VoidedAt = &voidedAt

	saved, err := s.repo.UpdateInvoice(ctx, updated)
	if err != nil {
		return domain.Invoice{}, err
	}

	s.logAudit(ctx, "invoice_void", "invoice", saved.ID, fmt.Sprintf("number=%s,reason=%s", saved.InvoiceNumber, reason))
	return *saved, nil
}

func (s *Service) DailySalesReport(ctx context.Context, date string) (domain.DailySalesReport, error) {
	now := time.Now().UTC()
	day, err := parseDayOrDefault(date, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		return domain.DailySalesReport{}, err
	}
	from := day
	to := from.Add(24 * time.Hour)

	report, err := s.repo.GetDailySalesReport(ctx, from, to)
	if err != nil {
		return domain.DailySalesReport{}, err
	}
	report.Date = from.Format("2006-01-02")
	return report, nil
}

// resolveInvoiceLines looks up each referenced product, rejects inactive
// ones, and fills unit prices from the current catalog price.
func (s *Service) resolveInvoiceLines(ctx context.Context, reqLines []domain.InvoiceLine) ([]domain.InvoiceLine, error) {
	lines := make([]domain.InvoiceLine, 0, len(reqLines))
	for i, line := range reqLines {
		product, err := s.repo.GetProductByID(ctx, strings.TrimSpace(line.ProductID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &domain.ValidationError{Fields: map[string]string{
					fmt.Sprintf("lines[%d].product_id", i): "unknown product",
				}}
			}
			return nil, err
		}
		if product.Status != domain.StatusActive {
			return nil, &domain.ValidationError{Fields: map[string]string{
				fmt.Sprintf("lines[%d].product_id", i): "product is inactive",
			}}
		}
		lines = append(lines, domain.InvoiceLine{
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}
	return lines, nil
}

// newInvoiceNumber builds "001-001-YYYYMMDDnnnn" where nnnn is a random
// suffix in [1000, 9999]. Uniqueness is enforced by the store.
func newInvoiceNumber(issuedAt time.Time) string {
	return fmt.Sprintf("001-001-%s%d", issuedAt.Format("20060102"), 1000+rand.Intn(9000))
}
