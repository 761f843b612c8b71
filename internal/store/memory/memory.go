package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/xid"
)

type Store struct {
	mu                    sync.RWMutex
	clientsByID           map[string]domain.Client
	productsByID          map[string]domain.Product
	invoicesByID          map[string]domain.Invoice
	suppliersByID         map[string]domain.Supplier
	brandsByID            map[string]domain.Brand
	promotionsByID        map[string]domain.Promotion
	purchaseOrdersByID    map[string]domain.PurchaseOrder
	receiptsByID          map[string]domain.Receipt
	priceHistoryByProduct map[string][]domain.ProductPriceHistory
	auditLogs             []domain.AuditLog
	usersByUsername       map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD; when
// unset, hardcoded dev defaults are used with a warning. Production runs
// against PostgreSQL (DATABASE_URL set) and never touches these.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"staff", staffPwd, domain.RoleStaff},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func New() *Store {
	return &Store{
		clientsByID:           make(map[string]domain.Client),
		productsByID:          make(map[string]domain.Product),
		invoicesByID:          make(map[string]domain.Invoice),
		suppliersByID:         make(map[string]domain.Supplier),
		brandsByID:            make(map[string]domain.Brand),
		promotionsByID:        make(map[string]domain.Promotion),
		purchaseOrdersByID:    make(map[string]domain.PurchaseOrder),
		receiptsByID:          make(map[string]domain.Receipt),
		priceHistoryByProduct: make(map[string][]domain.ProductPriceHistory),
		auditLogs:             make([]domain.AuditLog, 0, 128),
		usersByUsername:       seedUsers(),
	}
}

func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	clients := []domain.Client{
		{ID: "cli-seed-01", NationalID: "1710034065", GivenNames: "Maria Fernanda", FamilyNames: "Cevallos Ruiz", Email: "mcevallos@example.com", Phone: "0991234567", Address: "Av. Amazonas N24-03", Status: domain.StatusActive, RegisteredAt: now},
		{ID: "cli-seed-02", NationalID: "0926687856", GivenNames: "Jorge Luis", FamilyNames: "Paredes Mora", Email: "jparedes@example.com", Phone: "0987654321", Address: "Calle Sucre 112", Status: domain.StatusActive, RegisteredAt: now},
	}
	products := []domain.Product{
		{ID: "prd-seed-01", Barcode: "7861001234501", Name: "Arroz Premium 2kg", PriceCents: 3450, StockQuantity: 80, Category: "grocery", Brand: "La Pradera", Status: domain.StatusActive, CreatedAt: now},
		{ID: "prd-seed-02", Barcode: "7861001234502", Name: "Aceite Girasol 1L", PriceCents: 2890, StockQuantity: 60, Category: "grocery", Brand: "El Dorado", Status: domain.StatusActive, CreatedAt: now},
		{ID: "prd-seed-03", Barcode: "7861001234503", Name: "Leche Entera 1L", PriceCents: 1050, StockQuantity: 120, Category: "dairy", Brand: "Vita", Status: domain.StatusActive, CreatedAt: now},
		{ID: "prd-seed-04", Barcode: "7861001234504", Name: "Atun en Aceite 170g", PriceCents: 1550, StockQuantity: 90, Category: "grocery", Brand: "Real", Status: domain.StatusActive, CreatedAt: now},
	}
	suppliers := []domain.Supplier{
		{ID: "sup-seed-01", TaxID: "1790012345001", LegalName: "Distribuidora Andina S.A.", ContactName: "Carlos Vera", Phone: "0223456789", Status: domain.StatusActive, CreatedAt: now},
	}
	brands := []domain.Brand{
		{ID: "brd-seed-01", Name: "La Pradera", Status: domain.StatusActive, CreatedAt: now},
		{ID: "brd-seed-02", Name: "El Dorado", Status: domain.StatusActive, CreatedAt: now},
	}

	for _, c := range clients {
		s.clientsByID[c.ID] = c
	}
	for _, p := range products {
		s.productsByID[p.ID] = p
	}
	for _, sp := range suppliers {
		s.suppliersByID[sp.ID] = sp
	}
	for _, b := range brands {
		s.brandsByID[b.ID] = b
	}
	return s
}

func (s *Store) ListClients(_ context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]domain.Client, 0, len(s.clientsByID))
	for _, c := range s.clientsByID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if query != "" && !matchClient(c, query) {
			continue
		}
		result = append(result, c)
	}

	slices.SortFunc(result, func(a, b domain.Client) int {
		if a.FamilyNames == b.FamilyNames {
			return cmpString(a.GivenNames, b.GivenNames)
		}
		return cmpString(a.FamilyNames, b.FamilyNames)
	})
	return result, nil
}

func matchClient(c domain.Client, query string) bool {
	return strings.Contains(strings.ToLower(c.GivenNames), query) ||
		strings.Contains(strings.ToLower(c.FamilyNames), query) ||
		strings.Contains(c.NationalID, query) ||
		strings.Contains(strings.ToLower(c.Email), query)
}

func (s *Store) GetClientByID(_ context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.clientsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyClient := c
	return &copyClient, nil
}

func (s *Store) FindClientByNationalID(_ context.Context, nationalID string, status string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clientsByID {
		if c.NationalID != nationalID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		copyClient := c
		return &copyClient, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateClient(_ context.Context, client domain.Client) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clientsByID {
		if existing.NationalID == client.NationalID && existing.Status == domain.StatusActive {
			return nil, store.ErrDuplicate
		}
	}
	s.clientsByID[client.ID] = client
	created := client
	return &created, nil
}

func (s *Store) UpdateClient(_ context.Context, client domain.Client) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clientsByID[client.ID]; !exists {
		return nil, store.ErrNotFound
	}
	for _, existing := range s.clientsByID {
		if existing.ID != client.ID && existing.NationalID == client.NationalID && existing.Status == domain.StatusActive && client.Status == domain.StatusActive {
			return nil, store.ErrDuplicate
		}
	}
	s.clientsByID[client.ID] = client
	updated := client
	return &updated, nil
}

func (s *Store) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]domain.Product, 0, len(s.productsByID))
	for _, p := range s.productsByID {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MinPriceCents > 0 && p.PriceCents < filter.MinPriceCents {
			continue
		}
		if filter.MaxPriceCents > 0 && p.PriceCents > filter.MaxPriceCents {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) && !strings.Contains(p.Barcode, query) {
			continue
		}
		result = append(result, p)
	}

	slices.SortFunc(result, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})
	return result, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.productsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := p
	return &copyProduct, nil
}

func (s *Store) FindProductByBarcode(_ context.Context, barcode string, status string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.productsByID {
		if p.Barcode != barcode {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		copyProduct := p
		return &copyProduct, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.productsByID {
		if existing.Barcode == product.Barcode && existing.Status == domain.StatusActive {
			return nil, store.ErrDuplicate
		}
	}
	s.productsByID[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[product.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.productsByID[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) AdjustProductStock(_ context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.productsByID[productID]
	if !exists {
		return store.ErrNotFound
	}
	p.StockQuantity += delta
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	s.productsByID[productID] = p
	return nil
}

func (s *Store) CreatePriceHistory(_ context.Context, entry domain.ProductPriceHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("ph")
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	s.priceHistoryByProduct[entry.ProductID] = append(s.priceHistoryByProduct[entry.ProductID], entry)
	return nil
}

func (s *Store) ListPriceHistory(_ context.Context, productID string, limit int) ([]domain.ProductPriceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.priceHistoryByProduct[productID]
	if len(history) == 0 {
		return []domain.ProductPriceHistory{}, nil
	}

	result := make([]domain.ProductPriceHistory, len(history))
	copy(result, history)
	slices.SortFunc(result, func(a, b domain.ProductPriceHistory) int {
		if a.ChangedAt.Equal(b.ChangedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.ChangedAt.After(b.ChangedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) ListInvoices(_ context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]domain.Invoice, 0, len(s.invoicesByID))
	for _, inv := range s.invoicesByID {
		if filter.PaymentStatus != "" && inv.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.ClientID != "" && inv.ClientID != filter.ClientID {
			continue
		}
		if filter.From != nil && inv.IssuedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !inv.IssuedAt.Before(*filter.To) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(inv.InvoiceNumber), query) {
			continue
		}
		result = append(result, cloneInvoice(inv))
	}

	slices.SortFunc(result, func(a, b domain.Invoice) int {
		if a.IssuedAt.Equal(b.IssuedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.IssuedAt.After(b.IssuedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) GetInvoiceByID(_ context.Context, id string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, exists := s.invoicesByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyInvoice := cloneInvoice(inv)
	return &copyInvoice, nil
}

func (s *Store) FindInvoiceByNumber(_ context.Context, number string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoicesByID {
		if inv.InvoiceNumber == number {
			copyInvoice := cloneInvoice(inv)
			return &copyInvoice, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateInvoice(_ context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.invoicesByID {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return nil, store.ErrDuplicate
		}
	}
	s.invoicesByID[invoice.ID] = cloneInvoice(invoice)
	created := cloneInvoice(invoice)
	return &created, nil
}

func (s *Store) UpdateInvoice(_ context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoicesByID[invoice.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.invoicesByID[invoice.ID] = cloneInvoice(invoice)
	updated := cloneInvoice(invoice)
	return &updated, nil
}

func (s *Store) GetDailySalesReport(_ context.Context, from time.Time, to time.Time) (domain.DailySalesReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := domain.DailySalesReport{Date: from.Format("2006-01-02")}
	for _, inv := range s.invoicesByID {
		if inv.IssuedAt.Before(from) || !inv.IssuedAt.Before(to) {
			continue
		}
		if inv.PaymentStatus == domain.PaymentVoid {
			continue
		}
		report.Invoices++
		if inv.PaymentStatus == domain.PaymentPaid {
			report.PaidInvoices++
		} else {
			report.PendingInvoices++
		}
		report.SubtotalCents += inv.SubtotalCents
		report.TaxCents += inv.TaxCents
		report.TotalCents += inv.TotalCents
	}
	return report, nil
}

func (s *Store) ListSuppliers(_ context.Context, query string, status string) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]domain.Supplier, 0, len(s.suppliersByID))
	for _, sp := range s.suppliersByID {
		if status != "" && sp.Status != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(sp.LegalName), query) && !strings.Contains(sp.TaxID, query) {
			continue
		}
		result = append(result, sp)
	}
	slices.SortFunc(result, func(a, b domain.Supplier) int {
		return cmpString(a.LegalName, b.LegalName)
	})
	return result, nil
}

func (s *Store) GetSupplierByID(_ context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, exists := s.suppliersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copySupplier := sp
	return &copySupplier, nil
}

func (s *Store) FindSupplierByTaxID(_ context.Context, taxID string, status string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sp := range s.suppliersByID {
		if sp.TaxID != taxID {
			continue
		}
		if status != "" && sp.Status != status {
			continue
		}
		copySupplier := sp
		return &copySupplier, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.suppliersByID {
		if existing.TaxID == supplier.TaxID && existing.Status == domain.StatusActive {
			return nil, store.ErrDuplicate
		}
	}
	s.suppliersByID[supplier.ID] = supplier
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliersByID[supplier.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.suppliersByID[supplier.ID] = supplier
	updated := supplier
	return &updated, nil
}

func (s *Store) ListBrands(_ context.Context, status string) ([]domain.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Brand, 0, len(s.brandsByID))
	for _, b := range s.brandsByID {
		if status != "" && b.Status != status {
			continue
		}
		result = append(result, b)
	}
	slices.SortFunc(result, func(a, b domain.Brand) int {
		return cmpString(a.Name, b.Name)
	})
	return result, nil
}

func (s *Store) GetBrandByID(_ context.Context, id string) (*domain.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.brandsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyBrand := b
	return &copyBrand, nil
}

func (s *Store) FindBrandByName(_ context.Context, name string, status string) (*domain.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.brandsByID {
		if !strings.EqualFold(b.Name, name) {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		copyBrand := b
		return &copyBrand, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateBrand(_ context.Context, brand domain.Brand) (*domain.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.brandsByID {
		if strings.EqualFold(existing.Name, brand.Name) && existing.Status == domain.StatusActive {
			return nil, store.ErrDuplicate
		}
	}
	s.brandsByID[brand.ID] = brand
	created := brand
	return &created, nil
}

func (s *Store) UpdateBrand(_ context.Context, brand domain.Brand) (*domain.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brandsByID[brand.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.brandsByID[brand.ID] = brand
	updated := brand
	return &updated, nil
}

func (s *Store) ListPromotions(_ context.Context, status string) ([]domain.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Promotion, 0, len(s.promotionsByID))
	for _, p := range s.promotionsByID {
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, clonePromotion(p))
	}
	slices.SortFunc(result, func(a, b domain.Promotion) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.ID, b.ID)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) GetPromotionByID(_ context.Context, id string) (*domain.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.promotionsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyPromo := clonePromotion(p)
	return &copyPromo, nil
}

func (s *Store) CreatePromotion(_ context.Context, promo domain.Promotion) (*domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promotionsByID[promo.ID] = clonePromotion(promo)
	created := clonePromotion(promo)
	return &created, nil
}

func (s *Store) UpdatePromotion(_ context.Context, promo domain.Promotion) (*domain.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.promotionsByID[promo.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.promotionsByID[promo.ID] = clonePromotion(promo)
	updated := clonePromotion(promo)
	return &updated, nil
}

func (s *Store) ListPurchaseOrders(_ context.Context, filter domain.PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PurchaseOrder, 0, len(s.purchaseOrdersByID))
	for _, po := range s.purchaseOrdersByID {
		if filter.Status != "" && po.Status != filter.Status {
			continue
		}
		if filter.SupplierID != "" && po.SupplierID != filter.SupplierID {
			continue
		}
		result = append(result, clonePurchaseOrder(po))
	}
	slices.SortFunc(result, func(a, b domain.PurchaseOrder) int {
		if a.OrderedAt.Equal(b.OrderedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.OrderedAt.After(b.OrderedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) GetPurchaseOrderByID(_ context.Context, id string) (*domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	po, exists := s.purchaseOrdersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyPO := clonePurchaseOrder(po)
	return &copyPO, nil
}

func (s *Store) CreatePurchaseOrder(_ context.Context, po domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.purchaseOrdersByID {
		if existing.OrderNumber == po.OrderNumber {
			return nil, store.ErrDuplicate
		}
	}
	s.purchaseOrdersByID[po.ID] = clonePurchaseOrder(po)
	created := clonePurchaseOrder(po)
	return &created, nil
}

func (s *Store) UpdatePurchaseOrder(_ context.Context, po domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.purchaseOrdersByID[po.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.purchaseOrdersByID[po.ID] = clonePurchaseOrder(po)
	updated := clonePurchaseOrder(po)
	return &updated, nil
}

func (s *Store) ListReceipts(_ context.Context, status string) ([]domain.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Receipt, 0, len(s.receiptsByID))
	for _, r := range s.receiptsByID {
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, r)
	}
	slices.SortFunc(result, func(a, b domain.Receipt) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) GetReceiptByID(_ context.Context, id string) (*domain.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.receiptsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyReceipt := r
	return &copyReceipt, nil
}

func (s *Store) CreateReceipt(_ context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receiptsByID[receipt.ID] = receipt
	created := receipt
	return &created, nil
}

func (s *Store) UpdateReceipt(_ context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.receiptsByID[receipt.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.receiptsByID[receipt.ID] = receipt
	updated := receipt
	return &updated, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrDuplicate
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrDuplicate
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneInvoice(src domain.Invoice) domain.Invoice {
	dup := src
	lines := make([]domain.InvoiceLine, len(src.Lines))
	copy(lines, src.Lines)
	dup.Lines = lines
	if src.VoidedAt != nil {
		at := *src.VoidedAt
		dup.VoidedAt = &at
	}
	return dup
}

func clonePurchaseOrder(src domain.PurchaseOrder) domain.PurchaseOrder {
	dup := src
	lines := make([]domain.PurchaseOrderLine, len(src.Lines))
	copy(lines, src.Lines)
	dup.Lines = lines
	if src.ReceivedAt != nil {
		at := *src.ReceivedAt
		dup.ReceivedAt = &at
	}
	return dup
}

func clonePromotion(src domain.Promotion) domain.Promotion {
	dup := src
	ids := make([]string, len(src.ProductIDs))
	copy(ids, src.ProductIDs)
	dup.ProductIDs = ids
	return dup
}
