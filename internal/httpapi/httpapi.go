package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/service"
	"barbox/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	logger        zerolog.Logger
	allowedOrigin string
	loginLimiter  *attemptLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, logger zerolog.Logger, allowedOrigin string) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	return &API{
		service:       svc,
		auth:          auth,
		logger:        logger,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)

	mux.HandleFunc("/api/v1/clients", a.requireAuth(a.handleClients, domain.RoleStaff, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/clients/", a.requireAuth(a.handleClientActions, domain.RoleStaff, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/products", a.requireAuth(a.handleProducts, domain.RoleStaff, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/products/", a.requireAuth(a.handleProductActions, domain.RoleStaff, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/invoices", a.requireAuth(a.handleInvoices, domain.RoleStaff, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/invoices/", a.requireAuth(a.handleInvoiceActions, domain.RoleStaff, domain.RoleAdmin))

	mux.HandleFunc("/api/v1/suppliers", a.requireAuth(a.handleSuppliers, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/suppliers/", a.requireAuth(a.handleSupplierActions, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/brands", a.requireAuth(a.handleBrands, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/brands/", a.requireAuth(a.handleBrandActions, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/promotions", a.requireAuth(a.handlePromotions, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/promotions/", a.requireAuth(a.handlePromotionActions, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/purchase-orders", a.requireAuth(a.handlePurchaseOrders, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/purchase-orders/", a.requireAuth(a.handlePurchaseOrderActions, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/receipts", a.requireAuth(a.handleReceipts, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/receipts/", a.requireAuth(a.handleReceiptActions, domain.RoleAdmin))

	mux.HandleFunc("/api/v1/audit-logs", a.requireAuth(a.handleAuditLogs, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/reports/daily-sales", a.requireAuth(a.handleDailySalesReport, domain.RoleAdmin))
	mux.HandleFunc("/api/v1/users/staff", a.requireAuth(a.handleStaff, domain.RoleAdmin))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeFail(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeFail(w, http.StatusUnauthorized, err.Error())
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeFail(w, http.StatusForbidden, "forbidden role")
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeOK(w, http.StatusOK, "healthy", map[string]any{
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeFail(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		writeFail(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeOK(w, http.StatusOK, "authenticated", resp)
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour
// bucket. Clients must send it back in the X-CSRF-Token header for all
// mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeOK(w, http.StatusOK, "token issued", map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

var csrfExemptPaths = []string{
	"/api/v1/auth/login",
}

func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeFail(w, http.StatusForbidden, "missing or invalid CSRF token")
		return false
	}
	return true
}

func (a *API) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := domain.ClientFilter{
			Query:  r.URL.Query().Get("q"),
			Status: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
		}
		clients, err := a.service.ListClients(r.Context(), filter)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "clients listed", map[string]any{"clients": clients})
	case http.MethodPost:
		var req domain.ClientCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		client, err := a.service.CreateClient(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "client created", map[string]any{"client": client})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleClientActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/clients/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		client, err := a.service.GetClient(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "client found", map[string]any{"client": client})
	case action == "" && r.Method == http.MethodPatch:
		var req domain.ClientUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		client, err := a.service.UpdateClient(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "client updated", map[string]any{"client": client})
	case action == "deactivate" && r.Method == http.MethodPost:
		client, err := a.service.DeactivateClient(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "client deactivated", map[string]any{"client": client})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := domain.ProductFilter{
			Query:         r.URL.Query().Get("q"),
			Status:        strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
			Category:      strings.TrimSpace(r.URL.Query().Get("category")),
			MinPriceCents: parseCents(r.URL.Query().Get("min_price_cents")),
			MaxPriceCents: parseCents(r.URL.Query().Get("max_price_cents")),
		}
		products, err := a.service.ListProducts(r.Context(), filter)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "products listed", map[string]any{"products": products})
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "product created", map[string]any{"product": product})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/products/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "product found", map[string]any{"product": product})
	case action == "" && r.Method == http.MethodPatch:
		var req domain.ProductUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		product, err := a.service.UpdateProduct(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "product updated", map[string]any{"product": product})
	case action == "deactivate" && r.Method == http.MethodPost:
		product, err := a.service.DeactivateProduct(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "product deactivated", map[string]any{"product": product})
	case action == "price-history" && r.Method == http.MethodGet:
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 50, 200)
		history, err := a.service.ListProductPriceHistory(r.Context(), id, limit)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "price history listed", map[string]any{"history": history})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleInvoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := domain.InvoiceFilter{
			Query:         r.URL.Query().Get("q"),
			PaymentStatus: strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("payment_status"))),
			ClientID:      strings.TrimSpace(r.URL.Query().Get("client_id")),
		}
		if from, err := parseDayParam(r.URL.Query().Get("from")); err == nil {
			filter.From = from
		}
		if to, err := parseDayParam(r.URL.Query().Get("to")); err == nil {
			filter.To = to
		}
		invoices, err := a.service.ListInvoices(r.Context(), filter)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "invoices listed", map[string]any{"invoices": invoices})
	case http.MethodPost:
		var req domain.InvoiceCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		invoice, err := a.service.CreateInvoice(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "invoice created", map[string]any{"invoice": invoice})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleInvoiceActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/invoices/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		invoice, err := a.service.GetInvoice(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "invoice found", map[string]any{"invoice": invoice})
	case action == "" && r.Method == http.MethodPatch:
		var req domain.InvoiceUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		invoice, err := a.service.UpdateInvoice(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "invoice updated", map[string]any{"invoice": invoice})
	case action == "pay" && r.Method == http.MethodPost:
		var req struct {
			PaymentMethod string `json:"payment_method"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		invoice, err := a.service.MarkInvoicePaid(r.Context(), id, req.PaymentMethod)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "invoice paid", map[string]any{"invoice": invoice})
	case action == "void" && r.Method == http.MethodPost:
		var req domain.InvoiceVoidRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		invoice, err := a.service.VoidInvoice(r.Context(), id, req.Reason)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "invoice voided", map[string]any{"invoice": invoice})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		suppliers, err := a.service.ListSuppliers(r.Context(), r.URL.Query().Get("q"), strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "suppliers listed", map[string]any{"suppliers": suppliers})
	case http.MethodPost:
		var req domain.SupplierCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		supplier, err := a.service.CreateSupplier(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "supplier created", map[string]any{"supplier": supplier})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSupplierActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/suppliers/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		supplier, err := a.service.GetSupplier(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "supplier found", map[string]any{"supplier": supplier})
	case action == "" && r.Method == http.MethodPatch:
		var req domain.SupplierUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		supplier, err := a.service.UpdateSupplier(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "supplier updated", map[string]any{"supplier": supplier})
	case action == "deactivate" && r.Method == http.MethodPost:
		supplier, err := a.service.DeactivateSupplier(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "supplier deactivated", map[string]any{"supplier": supplier})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleBrands(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		brands, err := a.service.ListBrands(r.Context(), strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "brands listed", map[string]any{"brands": brands})
	case http.MethodPost:
		var req domain.BrandCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		brand, err := a.service.CreateBrand(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "brand created", map[string]any{"brand": brand})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleBrandActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/brands/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPatch:
		var req domain.BrandUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		brand, err := a.service.UpdateBrand(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "brand updated", map[string]any{"brand": brand})
	case action == "deactivate" && r.Method == http.MethodPost:
		brand, err := a.service.DeactivateBrand(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "brand deactivated", map[string]any{"brand": brand})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePromotions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		promotions, err := a.service.ListPromotions(r.Context(), strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "promotions listed", map[string]any{"promotions": promotions})
	case http.MethodPost:
		var req domain.PromotionCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		promotion, err := a.service.CreatePromotion(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "promotion created", map[string]any{"promotion": promotion})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePromotionActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/promotions/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodPatch:
		var req domain.PromotionUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		promotion, err := a.service.UpdatePromotion(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "promotion updated", map[string]any{"promotion": promotion})
	case action == "deactivate" && r.Method == http.MethodPost:
		promotion, err := a.service.DeactivatePromotion(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "promotion deactivated", map[string]any{"promotion": promotion})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePurchaseOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := domain.PurchaseOrderFilter{
			Status:     strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
			SupplierID: strings.TrimSpace(r.URL.Query().Get("supplier_id")),
		}
		orders, err := a.service.ListPurchaseOrders(r.Context(), filter)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "purchase orders listed", map[string]any{"purchase_orders": orders})
	case http.MethodPost:
		var req domain.PurchaseOrderCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		order, err := a.service.CreatePurchaseOrder(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusCreated, "purchase order created", map[string]any{"purchase_order": order})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePurchaseOrderActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/purchase-orders/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		order, err := a.service.GetPurchaseOrder(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "purchase order found", map[string]any{"purchase_order": order})
	case action == "receive" && r.Method == http.MethodPost:
		var req domain.ReceiptCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		order, err := a.service.ReceivePurchaseOrder(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "purchase order received", map[string]any{"purchase_order": order})
	case action == "cancel" && r.Method == http.MethodPost:
		order, err := a.service.CancelPurchaseOrder(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "purchase order cancelled", map[string]any{"purchase_order": order})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleReceipts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	receipts, err := a.service.ListReceipts(r.Context(), strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "receipts listed", map[string]any{"receipts": receipts})
}

func (a *API) handleReceiptActions(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitResourcePath(w, r, "/api/v1/receipts/")
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		receipt, err := a.service.GetReceipt(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "receipt found", map[string]any{"receipt": receipt})
	case action == "approve" && r.Method == http.MethodPost:
		receipt, err := a.service.ApproveReceipt(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "receipt approved", map[string]any{"receipt": receipt})
	case action == "void" && r.Method == http.MethodPost:
		var req domain.ReceiptVoidRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		receipt, err := a.service.VoidReceipt(r.Context(), id, req.Reason)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "receipt voided", map[string]any{"receipt": receipt})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	date := r.URL.Query().Get("date")
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)

	logs, err := a.service.ListAuditLogs(r.Context(), date, limit)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "audit logs listed", map[string]any{"logs": logs})
}

func (a *API) handleDailySalesReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	report, err := a.service.DailySalesReport(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "daily sales report", report)
}

func (a *API) handleStaff(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		staff, err := a.auth.ListStaff(r.Context())
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeOK(w, http.StatusOK, "staff listed", map[string]any{"staff": staff})
	case http.MethodPost:
		var req domain.StaffCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		staff, err := a.auth.CreateStaff(r.Context(), req)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				writeFail(w, http.StatusConflict, err.Error())
			} else {
				writeFail(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeOK(w, http.StatusCreated, "staff created", map[string]any{"staff": staff})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		a.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(startedAt)).
			Msg("request")
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation 422, conflicts and rejected transitions 409, missing 404.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError
	var transitionErr *domain.TransitionError

	switch {
	case errors.As(err, &validationErr):
		writeEnvelope(w, http.StatusUnprocessableEntity, "error", validationErr.Error(), map[string]any{
			"violations": validationErr.Fields,
		})
	case errors.As(err, &conflictErr):
		writeFail(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &transitionErr):
		writeFail(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeFail(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		writeFail(w, http.StatusConflict, err.Error())
	case strings.Contains(strings.ToLower(err.Error()), "admin role required"):
		writeFail(w, http.StatusForbidden, err.Error())
	default:
		a.logger.Error().Err(err).Msg("internal error")
		writeFail(w, http.StatusInternalServerError, "internal server error")
	}
}

// splitResourcePath extracts "{id}" and an optional "{id}/{action}" suffix
// from the request path. Writes a 400 and returns ok=false on malformed
// paths.
func splitResourcePath(w http.ResponseWriter, r *http.Request, prefix string) (id string, action string, ok bool) {
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeFail(w, http.StatusBadRequest, "invalid path")
		return "", "", false
	}
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if tail == "" {
		writeFail(w, http.StatusBadRequest, "resource id required")
		return "", "", false
	}
	parts := strings.SplitN(tail, "/", 2)
	id = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		action = strings.Trim(parts[1], "/")
	}
	if id == "" {
		writeFail(w, http.StatusBadRequest, "resource id required")
		return "", "", false
	}
	return id, action, true
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func parseCents(raw string) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func parseDayParam(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	day := parsed.UTC()
	return &day, nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, "success", message, data)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, "error", message, nil)
}

func writeEnvelope(w http.ResponseWriter, httpStatus int, status string, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	})
}
