package domain

import "time"

type Client struct {
	ID           string    `json:"id"`
	NationalID   string    `json:"national_id"`
	GivenNames   string    `json:"given_names"`
	FamilyNames  string    `json:"family_names"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ClientCreateRequest struct {
	NationalID  string `json:"national_id"`
	GivenNames  string `json:"given_names"`
	FamilyNames string `json:"family_names"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type ClientUpdateRequest struct {
	NationalID  *string `json:"national_id,omitempty"`
	GivenNames  *string `json:"given_names,omitempty"`
	FamilyNames *string `json:"family_names,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type ClientFilter struct {
	Query  string
	Status string
}

type Product struct {
	ID            string    `json:"id"`
	Barcode       string    `json:"barcode"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int64     `json:"price_cents"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `json:"category,omitempty"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProductCreateRequest struct {
	Barcode       string `json:"barcode"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	StockQuantity int    `json:"stock_quantity"`
	Category      string `json:"category"`
	Subcategory   string `json:"subcategory"`
	Brand         string `json:"brand"`
	ImageURL      string `json:"image_url"`
}

type ProductUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PriceCents    *int64  `json:"price_cents,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	Category      *string `json:"category,omitempty"`
	Subcategory   *string `json:"subcategory,omitempty"`
	Brand         *string `json:"brand,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
}

type ProductFilter struct {
	Query         string
	Status        string
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
}

type ProductPriceHistory struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	OldPriceCents int64     `json:"old_price_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	ChangedBy     string    `json:"changed_by"`
	ChangedAt     time.Time `json:"changed_at"`
}

type InvoiceLine struct {
	ProductID         string `json:"product_id"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	LineSubtotalCents int64  `json:"line_subtotal_cents"`
}

type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	ClientID      string        `json:"client_id"`
	IssuedAt      time.Time     `json:"issued_at"`
	Lines         []InvoiceLine `json:"lines"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
	PaymentStatus string        `json:"payment_status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	VoidReason    string        `json:"void_reason,omitempty"`
	VoidedAt      *time.Time    `json:"voided_at,omitempty"`
}

type InvoiceCreateRequest struct {
	ClientID      string        `json:"client_id"`
	PaymentMethod string        `json:"payment_method"`
	Lines         []InvoiceLine `json:"lines"`
}

type InvoiceUpdateRequest struct {
	ClientID      *string       `json:"client_id,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	Lines         []InvoiceLine `json:"lines,omitempty"`
}

type InvoiceVoidRequest struct {
	Reason string `json:"reason"`
}

type InvoiceFilter struct {
	Query         string
	PaymentStatus string
	ClientID      string
	From          *time.Time
	To            *time.Time
}

type Supplier struct {
	ID          string    `json:"id"`
	TaxID       string    `json:"tax_id"`
	LegalName   string    `json:"legal_name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type SupplierCreateRequest struct {
	TaxID       string `json:"tax_id"`
	LegalName   string `json:"legal_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

type SupplierUpdateRequest struct {
	LegalName   *string `json:"legal_name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type BrandCreateRequest struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

type BrandUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type Promotion struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DiscountPercent float64   `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	ProductIDs      []string  `json:"product_ids"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type PromotionCreateRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DiscountPercent float64  `json:"discount_percent"`
	StartsAt        string   `json:"starts_at"`
	EndsAt          string   `json:"ends_at"`
	ProductIDs      []string `json:"product_ids"`
}

type PromotionUpdateRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	StartsAt        *string  `json:"starts_at,omitempty"`
	EndsAt          *string  `json:"ends_at,omitempty"`
	ProductIDs      []string `json:"product_ids,omitempty"`
}

type PurchaseOrderLine struct {
	ProductID         string `json:"product_id"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unit_price_cents"`
	LineSubtotalCents int64  `json:"line_subtotal_cents"`
}

type PurchaseOrder struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	SupplierID    string              `json:"supplier_id"`
	OrderedAt     time.Time           `json:"ordered_at"`
	Lines         []PurchaseOrderLine `json:"lines"`
	SubtotalCents int64               `json:"subtotal_cents"`
	TaxCents      int64               `json:"tax_cents"`
	TotalCents    int64               `json:"total_cents"`
	Status        string              `json:"status"`
	ReceivedAt    *time.Time          `json:"received_at,omitempty"`
	ReceivedBy    string              `json:"received_by,omitempty"`
}

type PurchaseOrderCreateRequest struct {
	SupplierID string              `json:"supplier_id"`
	Lines      []PurchaseOrderLine `json:"lines"`
}

type PurchaseOrderFilter struct {
	Status     string
	SupplierID string
}

type Receipt struct {
	ID              string     `json:"id"`
	PurchaseOrderID string     `json:"purchase_order_id"`
	ReceivedBy      string     `json:"received_by"`
	Description     string     `json:"description,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	VoidReason      string     `json:"void_reason,omitempty"`
	VoidedAt        *time.Time `json:"voided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ReceiptCreateRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	ReceivedBy      string `json:"received_by"`
	Description     string `json:"description"`
	Notes           string `json:"notes"`
}

type ReceiptVoidRequest struct {
	Reason string `json:"reason"`
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

type DailySalesReport struct {
	Date            string `json:"date"`
	Invoices        int64  `json:"invoices"`
	PaidInvoices    int64  `json:"paid_invoices"`
	PendingInvoices int64  `json:"pending_invoices"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	TaxCents        int64  `json:"tax_cents"`
	TotalCents      int64  `json:"total_cents"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentVoid    = "VOID"
)

const (
	OrderPending   = "PENDING"
	OrderReceived  = "RECEIVED"
	OrderCancelled = "CANCELLED"
)

const (
	ReceiptActive   = "ACT"
	ReceiptApproved = "APR"
	ReceiptVoided   = "ANU"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)
