package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
)

func TestInvoiceRoundTripAndReport(t *testing.T) {
	databaseURL := os.Getenv("BARBOX_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set BARBOX_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	clientID := fmt.Sprintf("cli-it-%d", stamp)
	productID := fmt.Sprintf("prd-it-%d", stamp)
	invoiceID := fmt.Sprintf("inv-it-%d", stamp)
	number := fmt.Sprintf("001-001-%s%04d", time.Now().UTC().Format("20060102"), stamp%10000)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	})

	if _, err := s.CreateClient(ctx, domain.Client{
		ID:           clientID,
		NationalID:   fmt.Sprintf("%010d", stamp%1_000_000_0000),
		GivenNames:   "Integracion",
		FamilyNames:  "Postgres",
		Status:       domain.StatusActive,
		RegisteredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	if _, err := s.CreateProduct(ctx, domain.Product{
		ID:            productID,
		Barcode:       fmt.Sprintf("it-%d", stamp),
		Name:          "Producto Integracion",
		PriceCents:    1550,
		StockQuantity: 10,
		Status:        domain.StatusActive,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	issuedAt := time.Now().UTC()
	invoice := domain.Invoice{
		ID:            invoiceID,
		InvoiceNumber: number,
		ClientID:      clientID,
		IssuedAt:      issuedAt,
		Lines: []domain.InvoiceLine{
			{ProductID: productID, Quantity: 2, UnitPriceCents: 1550, LineSubtotalCents: 3100},
		},
		SubtotalCents: 3100,
		TaxCents:      372,
		TotalCents:    3472,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: "cash",
	}

	created, err := s.CreateInvoice(ctx, invoice)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if len(created.Lines) != 1 || created.Lines[0].LineSubtotalCents != 3100 {
		t.Fatalf("unexpected lines after create: %+v", created.Lines)
	}

	found, err := s.FindInvoiceByNumber(ctx, number)
	if err != nil {
		t.Fatalf("find by number: %v", err)
	}
	if found.ID != invoiceID || found.TotalCents != 3472 {
		t.Fatalf("unexpected invoice: %+v", found)
	}

	// The invoice number carries a unique constraint.
	dup := invoice
	dup.ID = invoiceID + "-dup"
	if _, err := s.CreateInvoice(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		if err == nil {
			_, _ = s.db.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, dup.ID)
			_, _ = s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, dup.ID)
		}
		t.Fatalf("expected ErrDuplicate on reused invoice number, got %v", err)
	}

	day := time.Date(issuedAt.Year(), issuedAt.Month(), issuedAt.Day(), 0, 0, 0, 0, time.UTC)
	before, err := s.GetDailySalesReport(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	voidedAt := time.Now().UTC()
	voided := *found
	voided.PaymentStatus = domain.PaymentVoid
	voided.VoidReason = "integration test"
	voided.VoidedAt = &voidedAt
	if _, err := s.UpdateInvoice(ctx, voided); err != nil {
		t.Fatalf("void update: %v", err)
	}

	after, err := s.GetDailySalesReport(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("report after void: %v", err)
	}
	if after.Invoices != before.Invoices-1 {
		t.Fatalf("expected voided invoice to leave the report: before=%+v after=%+v", before, after)
	}
	if after.TotalCents != before.TotalCents-3472 {
		t.Fatalf("expected totals to drop by 3472: before=%d after=%d", before.TotalCents, after.TotalCents)
	}
}
