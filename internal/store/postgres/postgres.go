package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"barbox/backend/internal/domain"
	"barbox/backend/internal/store"
	"barbox/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListClients(ctx context.Context, filter domain.ClientFilter) ([]domain.Client, error) {
	query := strings.TrimSpace(filter.Query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, national_id, given_names, family_names, email, phone, address, status, registered_at
		FROM clients
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR given_names ILIKE '%'||$2||'%' OR family_names ILIKE '%'||$2||'%'
				OR national_id LIKE '%'||$2||'%' OR email ILIKE '%'||$2||'%')
		ORDER BY family_names, given_names
	`, filter.Status, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0, 64)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.NationalID, &c.GivenNames, &c.FamilyNames, &c.Email, &c.Phone, &c.Address, &c.Status, &c.RegisteredAt); err != nil {
			return nil, err
		}
		c.RegisteredAt = c.RegisteredAt.UTC()
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *Store) GetClientByID(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, national_id, given_names, family_names, email, phone, address, status, registered_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.NationalID, &c.GivenNames, &c.FamilyNames, &c.Email, &c.Phone, &c.Address, &c.Status, &c.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	c.RegisteredAt = c.RegisteredAt.UTC()
	return &c, nil
}

func (s *Store) FindClientByNationalID(ctx context.Context, nationalID string, status string) (*domain.Client, error) {
	var c domain.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, national_id, given_names, family_names, email, phone, address, status, registered_at
		FROM clients
		WHERE national_id = $1 AND ($2 = '' OR status = $2)
		LIMIT 1
	`, nationalID, status).Scan(&c.ID, &c.NationalID, &c.GivenNames, &c.FamilyNames, &c.Email, &c.Phone, &c.Address, &c.Status, &c.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	c.RegisteredAt = c.RegisteredAt.UTC()
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, national_id, given_names, family_names, email, phone, address, status, registered_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
	`, client.ID, client.NationalID, client.GivenNames, client.FamilyNames, client.Email, client.Phone, client.Address, client.Status, client.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := client
	return &created, nil
}

func (s *Store) UpdateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET national_id = $2, given_names = $3, family_names = $4, email = $5, phone = $6, address = $7, status = $8, updated_at = now()
		WHERE id = $1
	`, client.ID, client.NationalID, client.GivenNames, client.FamilyNames, client.Email, client.Phone, client.Address, client.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := client
	return &updated, nil
}

func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := strings.TrimSpace(filter.Query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, barcode, name, description, price_cents, stock_quantity, category, subcategory, brand, image_url, status, created_at
		FROM products
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR category = $2)
			AND ($3 <= 0 OR price_cents >= $3)
			AND ($4 <= 0 OR price_cents <= $4)
			AND ($5 = '' OR name ILIKE '%'||$5||'%' OR barcode LIKE '%'||$5||'%')
		ORDER BY category, name
	`, filter.Status, filter.Category, filter.MinPriceCents, filter.MaxPriceCents, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.Description, &p.PriceCents, &p.StockQuantity, &p.Category, &p.Subcategory, &p.Brand, &p.ImageURL, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, barcode, name, description, price_cents, stock_quantity, category, subcategory, brand, image_url, status, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Barcode, &p.Name, &p.Description, &p.PriceCents, &p.StockQuantity, &p.Category, &p.Subcategory, &p.Brand, &p.ImageURL, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (s *Store) FindProductByBarcode(ctx context.Context, barcode string, status string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, barcode, name, description, price_cents, stock_quantity, category, subcategory, brand, image_url, status, created_at
		FROM products
		WHERE barcode = $1 AND ($2 = '' OR status = $2)
		LIMIT 1
	`, barcode, status).Scan(&p.ID, &p.Barcode, &p.Name, &p.Description, &p.PriceCents, &p.StockQuantity, &p.Category, &p.Subcategory, &p.Brand, &p.ImageURL, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, barcode, name, description, price_cents, stock_quantity, category, subcategory, brand, image_url, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
	`, product.ID, product.Barcode, product.Name, product.Description, product.PriceCents, product.StockQuantity, product.Category, product.Subcategory, product.Brand, product.ImageURL, product.Status, product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, stock_quantity = $5, category = $6, subcategory = $7, brand = $8, image_url = $9, status = $10, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.PriceCents, product.StockQuantity, product.Category, product.Subcategory, product.Brand, product.ImageURL, product.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := product
	return &updated, nil
}

func (s *Store) AdjustProductStock(ctx context.Context, productID string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity + $2, 0), updated_at = now()
		WHERE id = $1
	`, productID, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreatePriceHistory(ctx context.Context, entry domain.ProductPriceHistory) error {
	if entry.ID == "" {
		entry.ID = xid.New("ph")
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_price_history (id, product_id, old_price_cents, new_price_cents, changed_by, changed_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, entry.ID, entry.ProductID, entry.OldPriceCents, entry.NewPriceCents, entry.ChangedBy, entry.ChangedAt)
	return err
}

func (s *Store) ListPriceHistory(ctx context.Context, productID string, limit int) ([]domain.ProductPriceHistory, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, old_price_cents, new_price_cents, changed_by, changed_at
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.ProductPriceHistory, 0, limit)
	for rows.Next() {
		var entry domain.ProductPriceHistory
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.OldPriceCents, &entry.NewPriceCents, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, err
		}
		entry.ChangedAt = entry.ChangedAt.UTC()
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	query := strings.TrimSpace(filter.Query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invoice_number, client_id, issued_at, subtotal_cents, tax_cents, total_cents,
			payment_status, payment_method, void_reason, voided_at
		FROM invoices
		WHERE ($1 = '' OR payment_status = $1)
			AND ($2 = '' OR client_id = $2)
			AND ($3::timestamptz IS NULL OR issued_at >= $3)
			AND ($4::timestamptz IS NULL OR issued_at < $4)
			AND ($5 = '' OR invoice_number ILIKE '%'||$5||'%')
		ORDER BY issued_at DESC
	`, filter.PaymentStatus, filter.ClientID, nullTime(filter.From), nullTime(filter.To), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, 64)
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		lines, err := s.loadInvoiceLines(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Lines = lines
	}
	return invoices, nil
}

func scanInvoiceRow(rows *sql.Rows) (domain.Invoice, error) {
	var inv domain.Invoice
	var paymentMethod sql.NullString
	var voidReason sql.NullString
	var voidedAt sql.NullTime
	if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.IssuedAt, &inv.SubtotalCents, &inv.TaxCents, &inv.TotalCents, &inv.PaymentStatus, &paymentMethod, &voidReason, &voidedAt); err != nil {
		return inv, err
	}
	inv.IssuedAt = inv.IssuedAt.UTC()
	if paymentMethod.Valid {
		inv.PaymentMethod = paymentMethod.String
	}
	if voidReason.Valid {
		inv.VoidReason = voidReason.String
	}
	if voidedAt.Valid {
		at := voidedAt.Time.UTC()
		inv.VoidedAt = &at
	}
	return inv, nil
}

func (s *Store) loadInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price_cents, line_subtotal_cents
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY id ASC
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.InvoiceLine, 0, 8)
	for rows.Next() {
		var line domain.InvoiceLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.LineSubtotalCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.findInvoice(ctx, "id", id)
}

func (s *Store) FindInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return s.findInvoice(ctx, "invoice_number", number)
}

func (s *Store) findInvoice(ctx context.Context, column string, value string) (*domain.Invoice, error) {
	if column != "id" && column != "invoice_number" {
		return nil, errors.New("unsupported lookup column")
	}

	var inv domain.Invoice
	var paymentMethod sql.NullString
	var voidReason sql.NullString
	var voidedAt sql.NullTime
	query := `
		SELECT id, invoice_number, client_id, issued_at, subtotal_cents, tax_cents, total_cents,
			payment_status, payment_method, void_reason, voided_at
		FROM invoices
		WHERE ` + column + ` = $1`
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.IssuedAt, &inv.SubtotalCents, &inv.TaxCents,
		&inv.TotalCents, &inv.PaymentStatus, &paymentMethod, &voidReason, &voidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	inv.IssuedAt = inv.IssuedAt.UTC()
	if paymentMethod.Valid {
		inv.PaymentMethod = paymentMethod.String
	}
	if voidReason.Valid {
		inv.VoidReason = voidReason.String
	}
	if voidedAt.Valid {
		at := voidedAt.Time.UTC()
		inv.VoidedAt = &at
	}

	lines, err := s.loadInvoiceLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (
			id, invoice_number, client_id, issued_at, subtotal_cents, tax_cents, total_cents,
			payment_status, payment_method, void_reason, voided_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
	`, invoice.ID, invoice.InvoiceNumber, invoice.ClientID, invoice.IssuedAt, invoice.SubtotalCents,
		invoice.TaxCents, invoice.TotalCents, invoice.PaymentStatus, nullIfEmpty(invoice.PaymentMethod),
		nullIfEmpty(invoice.VoidReason), nullTime(invoice.VoidedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}

	for _, line := range invoice.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_lines (invoice_id, product_id, quantity, unit_price_cents, line_subtotal_cents)
			VALUES ($1,$2,$3,$4,$5)
		`, invoice.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.LineSubtotalCents)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := invoice
	return &created, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET client_id = $2, subtotal_cents = $3, tax_cents = $4, total_cents = $5,
			payment_status = $6, payment_method = $7, void_reason = $8, voided_at = $9, updated_at = now()
		WHERE id = $1
	`, invoice.ID, invoice.ClientID, invoice.SubtotalCents, invoice.TaxCents, invoice.TotalCents,
		invoice.PaymentStatus, nullIfEmpty(invoice.PaymentMethod), nullIfEmpty(invoice.VoidReason), nullTime(invoice.VoidedAt))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoice.ID)
	if err != nil {
		return nil, err
	}
	for _, line := range invoice.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_lines (invoice_id, product_id, quantity, unit_price_cents, line_subtotal_cents)
			VALUES ($1,$2,$3,$4,$5)
		`, invoice.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.LineSubtotalCents)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated := invoice
	return &updated, nil
}

func (s *Store) GetDailySalesReport(ctx context.Context, from time.Time, to time.Time) (domain.DailySalesReport, error) {
	report := domain.DailySalesReport{Date: from.Format("2006-01-02")}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*)::bigint,
			COALESCE(SUM(CASE WHEN payment_status = $3 THEN 1 ELSE 0 END),0)::bigint,
			COALESCE(SUM(CASE WHEN payment_status = $4 THEN 1 ELSE 0 END),0)::bigint,
			COALESCE(SUM(subtotal_cents),0)::bigint,
			COALESCE(SUM(tax_cents),0)::bigint,
			COALESCE(SUM(total_cents),0)::bigint
		FROM invoices
		WHERE issued_at >= $1
			AND issued_at < $2
			AND payment_status <> $5
	`, from, to, domain.PaymentPaid, domain.PaymentPending, domain.PaymentVoid).Scan(
		&report.Invoices,
		&report.PaidInvoices,
		&report.PendingInvoices,
		&report.SubtotalCents,
		&report.TaxCents,
		&report.TotalCents,
	)
	if err != nil {
		return report, err
	}
	return report, nil
}

func (s *Store) ListSuppliers(ctx context.Context, query string, status string) ([]domain.Supplier, error) {
	query = strings.TrimSpace(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tax_id, legal_name, contact_name, phone, email, address, status, created_at
		FROM suppliers
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR legal_name ILIKE '%'||$2||'%' OR tax_id LIKE '%'||$2||'%')
		ORDER BY legal_name
	`, status, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		var sp domain.Supplier
		if err := rows.Scan(&sp.ID, &sp.TaxID, &sp.LegalName, &sp.ContactName, &sp.Phone, &sp.Email, &sp.Address, &sp.Status, &sp.CreatedAt); err != nil {
			return nil, err
		}
		sp.CreatedAt = sp.CreatedAt.UTC()
		suppliers = append(suppliers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error) {
	var sp domain.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tax_id, legal_name, contact_name, phone, email, address, status, created_at
		FROM suppliers
		WHERE id = $1
	`, id).Scan(&sp.ID, &sp.TaxID, &sp.LegalName, &sp.ContactName, &sp.Phone, &sp.Email, &sp.Address, &sp.Status, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	sp.CreatedAt = sp.CreatedAt.UTC()
	return &sp, nil
}

func (s *Store) FindSupplierByTaxID(ctx context.Context, taxID string, status string) (*domain.Supplier, error) {
	var sp domain.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tax_id, legal_name, contact_name, phone, email, address, status, created_at
		FROM suppliers
		WHERE tax_id = $1 AND ($2 = '' OR status = $2)
		LIMIT 1
	`, taxID, status).Scan(&sp.ID, &sp.TaxID, &sp.LegalName, &sp.ContactName, &sp.Phone, &sp.Email, &sp.Address, &sp.Status, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	sp.CreatedAt = sp.CreatedAt.UTC()
	return &sp, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, tax_id, legal_name, contact_name, phone, email, address, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
	`, supplier.ID, supplier.TaxID, supplier.LegalName, supplier.ContactName, supplier.Phone, supplier.Email, supplier.Address, supplier.Status, supplier.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET legal_name = $2, contact_name = $3, phone = $4, email = $5, address = $6, status = $7, updated_at = now()
		WHERE id = $1
	`, supplier.ID, supplier.LegalName, supplier.ContactName, supplier.Phone, supplier.Email, supplier.Address, supplier.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := supplier
	return &updated, nil
}

func (s *Store) ListBrands(ctx context.Context, status string) ([]domain.Brand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, logo_url, status, created_at
		FROM brands
		WHERE ($1 = '' OR status = $1)
		ORDER BY name
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0, 32)
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.LogoURL, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = b.CreatedAt.UTC()
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return brands, nil
}

func (s *Store) GetBrandByID(ctx context.Context, id string) (*domain.Brand, error) {
	var b domain.Brand
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, logo_url, status, created_at
		FROM brands
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.LogoURL, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func (s *Store) FindBrandByName(ctx context.Context, name string, status string) (*domain.Brand, error) {
	var b domain.Brand
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, logo_url, status, created_at
		FROM brands
		WHERE lower(name) = lower($1) AND ($2 = '' OR status = $2)
		LIMIT 1
	`, name, status).Scan(&b.ID, &b.Name, &b.LogoURL, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func (s *Store) CreateBrand(ctx context.Context, brand domain.Brand) (*domain.Brand, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO brands (id, name, logo_url, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, brand.ID, brand.Name, brand.LogoURL, brand.Status, brand.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := brand
	return &created, nil
}

func (s *Store) UpdateBrand(ctx context.Context, brand domain.Brand) (*domain.Brand, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE brands
		SET name = $2, logo_url = $3, status = $4, updated_at = now()
		WHERE id = $1
	`, brand.ID, brand.Name, brand.LogoURL, brand.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := brand
	return &updated, nil
}

func (s *Store) ListPromotions(ctx context.Context, status string) ([]domain.Promotion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, discount_percent, starts_at, ends_at, product_ids, status, created_at
		FROM promotions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := make([]domain.Promotion, 0, 16)
	for rows.Next() {
		var p domain.Promotion
		var productIDs []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DiscountPercent, &p.StartsAt, &p.EndsAt, &productIDs, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := decodePromotion(&p, productIDs); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promos, nil
}

func decodePromotion(p *domain.Promotion, productIDs []byte) error {
	p.StartsAt = p.StartsAt.UTC()
	p.EndsAt = p.EndsAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	if len(productIDs) > 0 {
		if err := json.Unmarshal(productIDs, &p.ProductIDs); err != nil {
			return err
		}
	}
	if p.ProductIDs == nil {
		p.ProductIDs = []string{}
	}
	return nil
}

func (s *Store) GetPromotionByID(ctx context.Context, id string) (*domain.Promotion, error) {
	var p domain.Promotion
	var productIDs []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, discount_percent, starts_at, ends_at, product_ids, status, created_at
		FROM promotions
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.DiscountPercent, &p.StartsAt, &p.EndsAt, &productIDs, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := decodePromotion(&p, productIDs); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePromotion(ctx context.Context, promo domain.Promotion) (*domain.Promotion, error) {
	productIDs, err := json.Marshal(promo.ProductIDs)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO promotions (id, name, description, discount_percent, starts_at, ends_at, product_ids, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
	`, promo.ID, promo.Name, promo.Description, promo.DiscountPercent, promo.StartsAt, promo.EndsAt, productIDs, promo.Status, promo.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	created := promo
	return &created, nil
}

func (s *Store) UpdatePromotion(ctx context.Context, promo domain.Promotion) (*domain.Promotion, error) {
	productIDs, err := json.Marshal(promo.ProductIDs)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE promotions
		SET name = $2, description = $3, discount_percent = $4, starts_at = $5, ends_at = $6, product_ids = $7, status = $8, updated_at = now()
		WHERE id = $1
	`, promo.ID, promo.Name, promo.Description, promo.DiscountPercent, promo.StartsAt, promo.EndsAt, productIDs, promo.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := promo
	return &updated, nil
}

func (s *Store) ListPurchaseOrders(ctx context.Context, filter domain.PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, supplier_id, ordered_at, subtotal_cents, tax_cents, total_cents,
			status, received_at, received_by
		FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR supplier_id = $2)
		ORDER BY ordered_at DESC
	`, filter.Status, filter.SupplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.PurchaseOrder, 0, 32)
	for rows.Next() {
		var po domain.PurchaseOrder
		var receivedAt sql.NullTime
		var receivedBy sql.NullString
		if err := rows.Scan(&po.ID, &po.OrderNumber, &po.SupplierID, &po.OrderedAt, &po.SubtotalCents, &po.TaxCents, &po.TotalCents, &po.Status, &receivedAt, &receivedBy); err != nil {
			return nil, err
		}
		po.OrderedAt = po.OrderedAt.UTC()
		if receivedAt.Valid {
			at := receivedAt.Time.UTC()
			po.ReceivedAt = &at
		}
		if receivedBy.Valid {
			po.ReceivedBy = receivedBy.String
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := s.loadPurchaseOrderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (s *Store) loadPurchaseOrderLines(ctx context.Context, orderID string) ([]domain.PurchaseOrderLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity, unit_price_cents, line_subtotal_cents
		FROM purchase_order_lines
		WHERE purchase_order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.PurchaseOrderLine, 0, 8)
	for rows.Next() {
		var line domain.PurchaseOrderLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPriceCents, &line.LineSubtotalCents); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) GetPurchaseOrderByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	var receivedAt sql.NullTime
	var receivedBy sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, supplier_id, ordered_at, subtotal_cents, tax_cents, total_cents,
			status, received_at, received_by
		FROM purchase_orders
		WHERE id = $1
	`, id).Scan(&po.ID, &po.OrderNumber, &po.SupplierID, &po.OrderedAt, &po.SubtotalCents, &po.TaxCents, &po.TotalCents, &po.Status, &receivedAt, &receivedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	po.OrderedAt = po.OrderedAt.UTC()
	if receivedAt.Valid {
		at := receivedAt.Time.UTC()
		po.ReceivedAt = &at
	}
	if receivedBy.Valid {
		po.ReceivedBy = receivedBy.String
	}

	lines, err := s.loadPurchaseOrderLines(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return &po, nil
}

func (s *Store) CreatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (
			id, order_number, supplier_id, ordered_at, subtotal_cents, tax_cents, total_cents,
			status, received_at, received_by, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
	`, po.ID, po.OrderNumber, po.SupplierID, po.OrderedAt, po.SubtotalCents, po.TaxCents, po.TotalCents,
		po.Status, nullTime(po.ReceivedAt), nullIfEmpty(po.ReceivedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}

	for _, line := range po.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO purchase_order_lines (purchase_order_id, product_id, quantity, unit_price_cents, line_subtotal_cents)
			VALUES ($1,$2,$3,$4,$5)
		`, po.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.LineSubtotalCents)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := po
	return &created, nil
}

func (s *Store) UpdatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE purchase_orders
		SET status = $2, received_at = $3, received_by = $4, updated_at = now()
		WHERE id = $1
	`, po.ID, po.Status, nullTime(po.ReceivedAt), nullIfEmpty(po.ReceivedBy))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := po
	return &updated, nil
}

func (s *Store) ListReceipts(ctx context.Context, status string) ([]domain.Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, purchase_order_id, received_by, description, notes, status, void_reason, voided_at, created_at
		FROM receipts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]domain.Receipt, 0, 32)
	for rows.Next() {
		var r domain.Receipt
		var voidReason sql.NullString
		var voidedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.PurchaseOrderID, &r.ReceivedBy, &r.Description, &r.Notes, &r.Status, &voidReason, &voidedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt = r.CreatedAt.UTC()
		if voidReason.Valid {
			r.VoidReason = voidReason.String
		}
		if voidedAt.Valid {
			at := voidedAt.Time.UTC()
			r.VoidedAt = &at
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (s *Store) GetReceiptByID(ctx context.Context, id string) (*domain.Receipt, error) {
	var r domain.Receipt
	var voidReason sql.NullString
	var voidedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, purchase_order_id, received_by, description, notes, status, void_reason, voided_at, created_at
		FROM receipts
		WHERE id = $1
	`, id).Scan(&r.ID, &r.PurchaseOrderID, &r.ReceivedBy, &r.Description, &r.Notes, &r.Status, &voidReason, &voidedAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if voidReason.Valid {
		r.VoidReason = voidReason.String
	}
	if voidedAt.Valid {
		at := voidedAt.Time.UTC()
		r.VoidedAt = &at
	}
	return &r, nil
}

func (s *Store) CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO receipts (id, purchase_order_id, received_by, description, notes, status, void_reason, voided_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
	`, receipt.ID, receipt.PurchaseOrderID, receipt.ReceivedBy, receipt.Description, receipt.Notes, receipt.Status,
		nullIfEmpty(receipt.VoidReason), nullTime(receipt.VoidedAt), receipt.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := receipt
	return &created, nil
}

func (s *Store) UpdateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE receipts
		SET description = $2, notes = $3, status = $4, void_reason = $5, voided_at = $6, updated_at = now()
		WHERE id = $1
	`, receipt.ID, receipt.Description, receipt.Notes, receipt.Status, nullIfEmpty(receipt.VoidReason), nullTime(receipt.VoidedAt))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := receipt
	return &updated, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1
			AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrDuplicate
	}
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,true,$4,now())
	`, user.Username, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullTime(val *time.Time) any {
	if val == nil {
		return nil
	}
	return val.UTC()
}
