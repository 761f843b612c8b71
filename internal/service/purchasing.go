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

func (s *Service) ListPurchaseOrders(ctx context.Context, filter domain.PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	return s.repo.ListPurchaseOrders(ctx, filter)
}

func (s *Service) GetPurchaseOrder(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	po, err := s.repo.GetPurchaseOrderByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	return *po, nil
}

func (s *Service) CreatePurchaseOrder(ctx context.Context, req domain.PurchaseOrderCreateRequest) (domain.PurchaseOrder, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.PurchaseOrder{}, err
	}

	req.SupplierID = strings.TrimSpace(req.SupplierID)
	violations := validate.Violations{}
	validate.Required("supplier_id", req.SupplierID, violations)
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
		validate.PositiveCents(fmt.Sprintf("lines[%d].unit_price_cents", i), line.UnitPriceCents, violations)
	}
	if !violations.Empty() {
		return domain.PurchaseOrder{}, &domain.ValidationError{Fields: violations}
	}

	supplier, err := s.repo.GetSupplierByID(ctx, req.SupplierID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if supplier.Status != domain.StatusActive {
		return domain.PurchaseOrder{}, &domain.TransitionError{Entity: "supplier", Operation: "order from", Status: supplier.Status}
	}

	lines := make([]domain.PurchaseOrderLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		product, err := s.repo.GetProductByID(ctx, strings.TrimSpace(line.ProductID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.PurchaseOrder{}, &domain.ValidationError{Fields: map[string]string{
					fmt.Sprintf("lines[%d].product_id", i): "unknown product",
				}}
			}
			return domain.PurchaseOrder{}, err
		}
		lines = append(lines, domain.PurchaseOrderLine{
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	now := time.Now().UTC()
	subtotal, tax, total := domain.ComputePurchaseOrderTotals(lines)

	po := domain.PurchaseOrder{
		ID:            xid.New("po"),
		OrderNumber:   fmt.Sprintf("PO-%s-%s", now.Format("20060102"), strings.ToUpper(xid.Short())),
		SupplierID:    supplier.ID,
		OrderedAt:     now,
		Lines:         lines,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		Status:        domain.OrderPending,
	}

	created, err := s.repo.CreatePurchaseOrder(ctx, po)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	s.logAudit(ctx, "purchase_order_create", "purchase_order", created.ID, fmt.Sprintf("number=%s,total=%d", created.OrderNumber, created.TotalCents))
	return *created, nil
}

// ReceivePurchaseOrder flips the order to RECEIVED, increments stock for
// every line and opens a warehouse receipt in ACT status.
func (s *Service) ReceivePurchaseOrder(ctx context.Context, id string, req domain.ReceiptCreateRequest) (domain.PurchaseOrder, error) {
	actor, err := s.requireAdmin(ctx)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	existing, err := s.repo.GetPurchaseOrderByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if err := domain.CanReceivePurchaseOrder(existing.Status); err != nil {
		return domain.PurchaseOrder{}, err
	}

	receivedBy := strings.TrimSpace(req.ReceivedBy)
	if receivedBy == "" {
		receivedBy = actor.Username
	}

	now := time.Now().UTC()
	updated := *existing
	updated.Status = domain.OrderReceived
	updated.ReceivedAt = &now
	updated.ReceivedBy = receivedBy

	saved, err := s.repo.UpdatePurchaseOrder(ctx, updated)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	for _, line := range saved.Lines {
		if err := s.repo.AdjustProductStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn().Err(err).
				Str("purchase_order_id", saved.ID).
				Str("product_id", line.ProductID).
				Msg("failed to increment stock on reception")
		}
	}
	s.invalidateCatalog(ctx)

	receipt := domain.Receipt{
		ID:              xid.New("rcpt"),
		PurchaseOrderID: saved.ID,
		ReceivedBy:      receivedBy,
		Description:     strings.TrimSpace(req.Description),
		Notes:           strings.TrimSpace(req.Notes),
		Status:          domain.ReceiptActive,
		CreatedAt:       now,
	}
	if _, err := s.repo.CreateReceipt(ctx, receipt); err != nil {
		s.logger.Warn().Err(err).Str("purchase_order_id", saved.ID).Msg("failed to open warehouse receipt")
	}

	s.logAudit(ctx, "purchase_order_receive", "purchase_order", saved.ID, fmt.Sprintf("number=%s,received_by=%s", saved.OrderNumber, receivedBy))
	return *saved, nil
}

func (s *Service) CancelPurchaseOrder(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.PurchaseOrder{}, err
	}

	existing, err := s.repo.GetPurchaseOrderByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if err := domain.CanCancelPurchaseOrder(existing.Status); err != nil {
		return domain.PurchaseOrder{}, err
	}

	updated := *existing
	updated.Status = domain.OrderCancelled
	saved, err := s.repo.UpdatePurchaseOrder(ctx, updated)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	s.logAudit(ctx, "purchase_order_cancel", "purchase_order", saved.ID, fmt.Sprintf("number=%s", saved.OrderNumber))
	return *saved, nil
}

func (s *Service) ListReceipts(ctx context.Context, status string) ([]domain.Receipt, error) {
	return s.repo.ListReceipts(ctx, strings.TrimSpace(status))
}

func (s *Service) GetReceipt(ctx context.Context, id string) (domain.Receipt, error) {
	receipt, err := s.repo.GetReceiptByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Receipt{}, err
	}
	return *receipt, nil
}

func (s *Service) ApproveReceipt(ctx context.Context, id string) (domain.Receipt, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Receipt{}, err
	}

	existing, err := s.repo.GetReceiptByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Receipt{}, err
	}
	if err := domain.CanApproveReceipt(existing.Status); err != nil {
		return domain.Receipt{}, err
	}

	updated := *existing
	updated.Status = domain.ReceiptApproved
	saved, err := s.repo.UpdateReceipt(ctx, updated)
	if err != nil {
		return domain.Receipt{}, err
	}

	s.logAudit(ctx, "receipt_approve", "receipt", saved.ID, fmt.Sprintf("purchase_order=%s", saved.PurchaseOrderID))
	return *saved, nil
}

func (s *Service) VoidReceipt(ctx context.Context, id string, reason string) (domain.Receipt, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Receipt{}, err
	}

	existing, err := s.repo.GetReceiptByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Receipt{}, err
	}
	if err := domain.CanVoidReceipt(existing.Status); err != nil {
		return domain.Receipt{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unspecified"
	}

	voidedAt := time.Now().UTC()
	updated := *existing
	updated.Status = domain.ReceiptVoided
	updated.VoidReason = reason
	updated.VoidedAt = &voidedAt

	saved, err := s.repo.UpdateReceipt(ctx, updated)
	if err != nil {
		return domain.Receipt{}, err
	}

	s.logAudit(ctx, "receipt_void", "receipt", saved.ID, fmt.Sprintf("purchase_order=%s,reason=%s", saved.PurchaseOrderID, reason))
	return *saved, nil
}
