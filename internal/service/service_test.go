package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"barbox/backend/internal/cache"
	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/store/memory"
)

func newTestService(opts Options) *Service {
	return New(memory.NewSeeded(), cache.NoopCatalogCache{}, zerolog.Nop(), opts)
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})
}

func staffCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "staff", Role: domain.RoleStaff})
}

func mustCreateInvoice(t *testing.T, svc *Service, productID string, qty int) domain.Invoice {
	t.Helper()
	inv, err := svc.CreateInvoice(staffCtx(), domain.InvoiceCreateRequest{
		ClientID:      "cli-seed-01",
		PaymentMethod: "cash",
		Lines:         []domain.InvoiceLine{{ProductID: productID, Quantity: qty}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func TestCreateClientRejectsMalformedNationalID(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
		NationalID:  "12345",
		GivenNames:  "Ana",
		FamilyNames: "Mora",
	})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["national_id"] == "" {
		t.Fatalf("expected national_id violation, got %v", vErr.Fields)
	}
}

func TestStrictNationalIDChecksum(t *testing.T) {
	svc := New(memory.New(), cache.NoopCatalogCache{}, zerolog.Nop(), Options{StrictNationalID: true})

	valid := []string{"1710034065", "0926687856"}
	for _, id := range valid {
		if _, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
			NationalID:  id,
			GivenNames:  "Cliente",
			FamilyNames: "Valido " + id,
		}); err != nil {
			t.Fatalf("expected %s to pass the checksum, got %v", id, err)
		}
	}

	_, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
		NationalID:  "1710034064",
		GivenNames:  "Cliente",
		FamilyNames: "Invalido",
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for bad check digit, got %v", err)
	}
	if vErr.Fields["national_id"] != "check digit mismatch" {
		t.Fatalf("unexpected violation: %v", vErr.Fields)
	}
}

func TestCreateClientConflictsWithActiveNationalID(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
		NationalID:  "1710034065",
		GivenNames:  "Otra",
		FamilyNames: "Persona",
	})
	var cErr *domain.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Field != "national_id" {
		t.Fatalf("expected national_id conflict, got %s", cErr.Field)
	}

	// Once the holder is inactive the number can be registered again.
	if _, err := svc.DeactivateClient(staffCtx(), "cli-seed-01"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
		NationalID:  "1710034065",
		GivenNames:  "Otra",
		FamilyNames: "Persona",
	}); err != nil {
		t.Fatalf("expected re-registration after deactivation, got %v", err)
	}
}

func TestClientNationalIDImmutableByDefault(t *testing.T) {
	svc := newTestService(Options{})

	newID := "0926687856"
	_, err := svc.UpdateClient(staffCtx(), "cli-seed-01", domain.ClientUpdateRequest{NationalID: &newID})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["national_id"] != "immutable" {
		t.Fatalf("unexpected violation: %v", vErr.Fields)
	}
}

func TestClientNationalIDUpdateWhenAllowed(t *testing.T) {
	svc := newTestService(Options{AllowNationalIDUpdate: true})

	newID := "1712345678"
	client, err := svc.UpdateClient(staffCtx(), "cli-seed-01", domain.ClientUpdateRequest{NationalID: &newID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if client.NationalID != newID {
		t.Fatalf("expected national id %s, got %s", newID, client.NationalID)
	}
}

func TestDeactivateClientIsTerminal(t *testing.T) {
	svc := newTestService(Options{})

	if _, err := svc.DeactivateClient(staffCtx(), "cli-seed-02"); err != nil {
		t.Fatalf("first deactivate: %v", err)
	}

	_, err := svc.DeactivateClient(staffCtx(), "cli-seed-02")
	var tErr *domain.TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if tErr.Status != domain.StatusInactive {
		t.Fatalf("expected INACTIVE in error, got %s", tErr.Status)
	}

	// Inactive records cannot be edited either.
	name := "Nuevo"
	if _, err := svc.UpdateClient(staffCtx(), "cli-seed-02", domain.ClientUpdateRequest{GivenNames: &name}); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on update, got %v", err)
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateProduct(staffCtx(), domain.ProductCreateRequest{
		Barcode:    "7861009999999",
		Name:       "Cafe Molido 500g",
		PriceCents: 4200,
	})
	if err == nil || err.Error() != "admin role required" {
		t.Fatalf("expected admin requirement, got %v", err)
	}
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Barcode:    "7861009999999",
		Name:       "Cafe Molido 500g",
		PriceCents: 0,
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["price_cents"] == "" {
		t.Fatalf("expected price_cents violation, got %v", vErr.Fields)
	}
}

func TestCreateProductBarcodeConflict(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Barcode:    "7861001234501",
		Name:       "Arroz Clon",
		PriceCents: 1000,
	})
	var cErr *domain.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Field != "barcode" {
		t.Fatalf("expected barcode conflict, got %s", cErr.Field)
	}
}

func TestUpdateProductPriceRecordsHistory(t *testing.T) {
	svc := newTestService(Options{})

	newPrice := int64(3990)
	if _, err := svc.UpdateProduct(adminCtx(), "prd-seed-01", domain.ProductUpdateRequest{PriceCents: &newPrice}); err != nil {
		t.Fatalf("update: %v", err)
	}

	history, err := svc.ListProductPriceHistory(staffCtx(), "prd-seed-01", 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}
	if history[0].OldPriceCents != 3450 || history[0].NewPriceCents != 3990 {
		t.Fatalf("unexpected history entry: %+v", history[0])
	}
	if history[0].ChangedBy != "admin" {
		t.Fatalf("expected changed_by admin, got %s", history[0].ChangedBy)
	}
}

func TestInvoiceTotalsAtTwelvePercent(t *testing.T) {
	svc := newTestService(Options{})

	// 2 x 1550 = 3100 subtotal, 372 tax, 3472 total.
	inv := mustCreateInvoice(t, svc, "prd-seed-04", 2)
	if inv.SubtotalCents != 3100 || inv.TaxCents != 372 || inv.TotalCents != 3472 {
		t.Fatalf("unexpected totals: subtotal=%d tax=%d total=%d", inv.SubtotalCents, inv.TaxCents, inv.TotalCents)
	}
	if inv.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected new invoice PENDING, got %s", inv.PaymentStatus)
	}
	if inv.Lines[0].UnitPriceCents != 1550 {
		t.Fatalf("expected unit price from catalog, got %d", inv.Lines[0].UnitPriceCents)
	}
}

func TestInvoiceTaxRounding(t *testing.T) {
	svc := newTestService(Options{})

	product, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Barcode:    "7861009999001",
		Name:       "Articulo Redondeo",
		PriceCents: 1000,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	inv := mustCreateInvoice(t, svc, product.ID, 1)
	if inv.TaxCents != 120 || inv.TotalCents != 1120 {
		t.Fatalf("unexpected totals: tax=%d total=%d", inv.TaxCents, inv.TotalCents)
	}
}

func TestInvoiceNumberFormat(t *testing.T) {
	issued := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^001-001-20260315\d{4}$`)

	for i := 0; i < 50; i++ {
		number := newInvoiceNumber(issued)
		if !pattern.MatchString(number) {
			t.Fatalf("unexpected invoice number %q", number)
		}
	}
}

func TestInvoiceRequiresActiveClient(t *testing.T) {
	svc := newTestService(Options{})

	if _, err := svc.DeactivateClient(staffCtx(), "cli-seed-01"); err != nil {
		t.Fatalf("deactivate client: %v", err)
	}

	_, err := svc.CreateInvoice(staffCtx(), domain.InvoiceCreateRequest{
		ClientID: "cli-seed-01",
		Lines:    []domain.InvoiceLine{{ProductID: "prd-seed-01", Quantity: 1}},
	})
	var tErr *domain.TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if tErr.Entity != "client" {
		t.Fatalf("expected client transition error, got %+v", tErr)
	}
}

func TestInvoiceRejectsUnknownAndInactiveProducts(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateInvoice(staffCtx(), domain.InvoiceCreateRequest{
		ClientID: "cli-seed-01",
		Lines:    []domain.InvoiceLine{{ProductID: "prd-missing", Quantity: 1}},
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["lines[0].product_id"] != "unknown product" {
		t.Fatalf("unexpected violation: %v", vErr.Fields)
	}

	if _, err := svc.DeactivateProduct(adminCtx(), "prd-seed-02"); err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
	_, err = svc.CreateInvoice(staffCtx(), domain.InvoiceCreateRequest{
		ClientID: "cli-seed-01",
		Lines:    []domain.InvoiceLine{{ProductID: "prd-seed-02", Quantity: 1}},
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["lines[0].product_id"] != "product is inactive" {
		t.Fatalf("unexpected violation: %v", vErr.Fields)
	}
}

func TestPaidInvoiceCannotBeEdited(t *testing.T) {
	svc := newTestService(Options{})

	inv := mustCreateInvoice(t, svc, "prd-seed-01", 1)
	if _, err := svc.MarkInvoicePaid(staffCtx(), inv.ID, "card"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	method := "cash"
	_, err := svc.UpdateInvoice(staffCtx(), inv.ID, domain.InvoiceUpdateRequest{PaymentMethod: &method})
	var tErr *domain.TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if tErr.Status != domain.PaymentPaid {
		t.Fatalf("expected PAID in error, got %s", tErr.Status)
	}

	// Neither paid again nor voided.
	if _, err := svc.MarkInvoicePaid(staffCtx(), inv.ID, ""); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on double pay, got %v", err)
	}
	if _, err := svc.VoidInvoice(staffCtx(), inv.ID, "late"); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on void of paid invoice, got %v", err)
	}
}

func TestVoidInvoiceOnlyFromPending(t *testing.T) {
	svc := newTestService(Options{})

	inv := mustCreateInvoice(t, svc, "prd-seed-03", 1)
	voided, err := svc.VoidInvoice(staffCtx(), inv.ID, "  ")
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.PaymentStatus != domain.PaymentVoid {
		t.Fatalf("expected VOID, got %s", voided.PaymentStatus)
	}
	if voided.VoidReason != "unspecified" {
		t.Fatalf("expected default void reason, got %q", voided.VoidReason)
	}
	if voided.VoidedAt == nil {
		t.Fatal("expected voided_at to be set")
	}

	_, err = svc.VoidInvoice(staffCtx(), inv.ID, "again")
	var tErr *domain.TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on double void, got %v", err)
	}
}

func TestInvoiceUpdateRecomputesTotals(t *testing.T) {
	svc := newTestService(Options{})

	inv := mustCreateInvoice(t, svc, "prd-seed-04", 1)
	updated, err := svc.UpdateInvoice(staffCtx(), inv.ID, domain.InvoiceUpdateRequest{
		Lines: []domain.InvoiceLine{{ProductID: "prd-seed-04", Quantity: 2, UnitPriceCents: 1}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	// Client-sent unit prices are ignored, the catalog price wins.
	if updated.SubtotalCents != 3100 || updated.TaxCents != 372 || updated.TotalCents != 3472 {
		t.Fatalf("unexpected totals after update: subtotal=%d tax=%d total=%d", updated.SubtotalCents, updated.TaxCents, updated.TotalCents)
	}
}

func TestDailySalesReportExcludesVoided(t *testing.T) {
	svc := newTestService(Options{})

	paid := mustCreateInvoice(t, svc, "prd-seed-04", 2) // 3472 total
	if _, err := svc.MarkInvoicePaid(staffCtx(), paid.ID, ""); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	mustCreateInvoice(t, svc, "prd-seed-03", 1) // pending, 1050 + 126 tax
	voided := mustCreateInvoice(t, svc, "prd-seed-01", 1)
	if _, err := svc.VoidInvoice(staffCtx(), voided.ID, "typo"); err != nil {
		t.Fatalf("void: %v", err)
	}

	report, err := svc.DailySalesReport(staffCtx(), time.Now().UTC().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Invoices != 2 || report.PaidInvoices != 1 || report.PendingInvoices != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.TotalCents != 3472+1176 {
		t.Fatalf("expected voided invoice excluded from totals, got %d", report.TotalCents)
	}
}

func TestDailySalesReportRejectsBadDate(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.DailySalesReport(staffCtx(), "15-03-2026")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSupplierTaxIDConflict(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateSupplier(adminCtx(), domain.SupplierCreateRequest{
		TaxID:     "1790012345001",
		LegalName: "Clon Andino S.A.",
	})
	var cErr *domain.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cErr.Field != "tax_id" {
		t.Fatalf("expected tax_id conflict, got %s", cErr.Field)
	}
}

func TestBrandNameConflictIsCaseInsensitive(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreateBrand(adminCtx(), domain.BrandCreateRequest{Name: "la pradera"})
	var cErr *domain.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestPromotionDateValidation(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.CreatePromotion(adminCtx(), domain.PromotionCreateRequest{
		Name:            "Semana del Arroz",
		DiscountPercent: 10,
		StartsAt:        "2026-04-10T00:00:00Z",
		EndsAt:          "2026-04-01T00:00:00Z",
		ProductIDs:      []string{"prd-seed-01"},
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Fields["ends_at"] == "" {
		t.Fatalf("expected ends_at violation, got %v", vErr.Fields)
	}

	_, err = svc.CreatePromotion(adminCtx(), domain.PromotionCreateRequest{
		Name:            "Semana del Arroz",
		DiscountPercent: 10,
		StartsAt:        "2026-04-01T00:00:00Z",
		EndsAt:          "2026-04-10T00:00:00Z",
		ProductIDs:      []string{"prd-missing"},
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown product, got %v", err)
	}
}

func TestPurchaseOrderReceptionFlow(t *testing.T) {
	svc := newTestService(Options{})

	po, err := svc.CreatePurchaseOrder(adminCtx(), domain.PurchaseOrderCreateRequest{
		SupplierID: "sup-seed-01",
		Lines:      []domain.PurchaseOrderLine{{ProductID: "prd-seed-01", Quantity: 5, UnitPriceCents: 2000}},
	})
	if err != nil {
		t.Fatalf("create purchase order: %v", err)
	}
	if po.Status != domain.OrderPending {
		t.Fatalf("expected PENDING, got %s", po.Status)
	}
	if po.SubtotalCents != 10000 || po.TaxCents != 1200 || po.TotalCents != 11200 {
		t.Fatalf("unexpected totals: %+v", po)
	}

	received, err := svc.ReceivePurchaseOrder(adminCtx(), po.ID, domain.ReceiptCreateRequest{Description: "entrega completa"})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if received.Status != domain.OrderReceived {
		t.Fatalf("expected RECEIVED, got %s", received.Status)
	}
	if received.ReceivedBy != "admin" {
		t.Fatalf("expected received_by to default to actor, got %s", received.ReceivedBy)
	}

	product, err := svc.GetProduct(staffCtx(), "prd-seed-01")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.StockQuantity != 85 {
		t.Fatalf("expected stock 85 after reception, got %d", product.StockQuantity)
	}

	receipts, err := svc.ListReceipts(adminCtx(), domain.ReceiptActive)
	if err != nil {
		t.Fatalf("list receipts: %v", err)
	}
	if len(receipts) != 1 || receipts[0].PurchaseOrderID != po.ID {
		t.Fatalf("expected one reception receipt for the order, got %+v", receipts)
	}

	// RECEIVED is terminal.
	var tErr *domain.TransitionError
	if _, err := svc.ReceivePurchaseOrder(adminCtx(), po.ID, domain.ReceiptCreateRequest{}); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on double receive, got %v", err)
	}
	if _, err := svc.CancelPurchaseOrder(adminCtx(), po.ID); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error on cancel of received order, got %v", err)
	}
}

func TestReceiptApproveAndVoid(t *testing.T) {
	svc := newTestService(Options{})

	po, err := svc.CreatePurchaseOrder(adminCtx(), domain.PurchaseOrderCreateRequest{
		SupplierID: "sup-seed-01",
		Lines:      []domain.PurchaseOrderLine{{ProductID: "prd-seed-02", Quantity: 1, UnitPriceCents: 1500}},
	})
	if err != nil {
		t.Fatalf("create purchase order: %v", err)
	}
	if _, err := svc.ReceivePurchaseOrder(adminCtx(), po.ID, domain.ReceiptCreateRequest{}); err != nil {
		t.Fatalf("receive: %v", err)
	}

	receipts, err := svc.ListReceipts(adminCtx(), "")
	if err != nil || len(receipts) != 1 {
		t.Fatalf("expected one receipt, got %d (%v)", len(receipts), err)
	}

	approved, err := svc.ApproveReceipt(adminCtx(), receipts[0].ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.ReceiptApproved {
		t.Fatalf("expected APR, got %s", approved.Status)
	}

	var tErr *domain.TransitionError
	if _, err := svc.VoidReceipt(adminCtx(), receipts[0].ID, "late"); !errors.As(err, &tErr) {
		t.Fatalf("expected transition error voiding an approved receipt, got %v", err)
	}
}

func TestAuditTrail(t *testing.T) {
	svc := newTestService(Options{})

	if _, err := svc.CreateClient(staffCtx(), domain.ClientCreateRequest{
		NationalID:  "1712345678",
		GivenNames:  "Pedro",
		FamilyNames: "Alarcon",
	}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	if _, err := svc.ListAuditLogs(staffCtx(), "", 10); err == nil {
		t.Fatal("expected staff to be denied audit log access")
	}

	logs, err := svc.ListAuditLogs(adminCtx(), "", 10)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(logs))
	}
	if logs[0].Action != "client_create" || logs[0].ActorUsername != "staff" {
		t.Fatalf("unexpected audit entry: %+v", logs[0])
	}
}

func TestCatalogCacheInvalidationOnMutation(t *testing.T) {
	tracker := &trackingCache{}
	svc := New(memory.NewSeeded(), tracker, zerolog.Nop(), Options{})

	activeOnly := domain.ProductFilter{Status: domain.StatusActive}
	if _, err := svc.ListProducts(staffCtx(), activeOnly); err != nil {
		t.Fatalf("list: %v", err)
	}
	if tracker.sets != 1 {
		t.Fatalf("expected the active catalog to be cached, sets=%d", tracker.sets)
	}

	// Filtered lookups bypass the cache entirely.
	if _, err := svc.ListProducts(staffCtx(), domain.ProductFilter{Status: domain.StatusActive, Category: "dairy"}); err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if tracker.sets != 1 {
		t.Fatalf("filtered list must not touch the cache, sets=%d", tracker.sets)
	}

	if _, err := svc.DeactivateProduct(adminCtx(), "prd-seed-03"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if tracker.invalidations == 0 {
		t.Fatal("expected catalog invalidation after product mutation")
	}
}

type trackingCache struct {
	sets          int
	invalidations int
}

func (c *trackingCache) GetProducts(context.Context, string) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (c *trackingCache) SetProducts(context.Context, string, []domain.Product, time.Duration) error {
	c.sets++
	return nil
}

func (c *trackingCache) Invalidate(context.Context, string) error {
	c.invalidations++
	return nil
}

func TestGetClientNotFound(t *testing.T) {
	svc := newTestService(Options{})

	_, err := svc.GetClient(staffCtx(), "cli-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
