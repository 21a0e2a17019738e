package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/invoice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/lib/pq"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

type invoiceLineRow struct {
	invoice.InvoiceLine
	Taxes pq.StringArray `db:"tax_ids"`
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `
	id, tenant_id, type, state, party_id, description, invoice_date, company_id, agent_id,
	account_id, journal_id, invoice_address_id, payment_term_id, price_list_id, reference,
	insured_amount, full_coverage, amount_paid, reconciled_at, status, created_at, updated_at, created_by, updated_by`

// CreateMany inserts the invoices and their lines. Callers wrap it in a transaction
// together with the state change of the originating services.
func (r *invoiceRepository) CreateMany(ctx context.Context, invoices []*invoice.Invoice) (map[string][]string, error) {
	q := r.db.GetQuerier(ctx)
	lineIDs := make(map[string][]string, len(invoices))

	insertInvoice := `
	INSERT INTO invoices (` + invoiceColumns + `
	) VALUES (
		:id, :tenant_id, :type, :state, :party_id, :description, :invoice_date, :company_id, :agent_id,
		:account_id, :journal_id, :invoice_address_id, :payment_term_id, :price_list_id, :reference,
		:insured_amount, :full_coverage, :amount_paid, :reconciled_at, :status, :created_at, :updated_at, :created_by, :updated_by
	)`

	insertLine := `
	INSERT INTO invoice_lines (
		id, invoice_id, type, origin, product_id, description, quantity, account_id,
		unit, unit_price, sequence, tax_ids, insured_amount
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, inv := range invoices {
		r.logger.Debugw("creating invoice", "invoice_id", inv.ID, "party_id", inv.PartyID, "lines", len(inv.Lines))

		if _, err := q.NamedExecContext(ctx, insertInvoice, inv); err != nil {
			return nil, wrapWriteError(err, "creating invoice failed")
		}

		ids := make([]string, 0, len(inv.Lines))
		for _, l := range inv.Lines {
			_, err := q.ExecContext(ctx, insertLine,
				l.ID,
				inv.ID,
				l.Type,
				l.Origin,
				l.ProductID,
				l.Description,
				l.Quantity,
				l.AccountID,
				l.Unit,
				l.UnitPrice,
				l.Sequence,
				pq.StringArray(l.TaxIDs),
				l.InsuredAmount,
			)
			if err != nil {
				return nil, wrapWriteError(err, "creating invoice line failed")
			}
			ids = append(ids, l.ID)
		}
		lineIDs[inv.ID] = ids
	}

	return lineIDs, nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	r.logger.Debugw("getting invoice", "id", id)

	var inv invoice.Invoice
	query := `SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		return nil, wrapGetError(err, "invoice", id)
	}

	if err := r.loadLines(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	UPDATE invoices SET
		state = :state,
		insured_amount = :insured_amount,
		amount_paid = :amount_paid,
		reconciled_at = :reconciled_at,
		updated_at = :updated_at,
		updated_by = :updated_by
	WHERE id = :id AND tenant_id = :tenant_id
	`

	res, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv)
	if err != nil {
		return wrapWriteError(err, "updating invoice failed")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("invoice %s not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) ListByState(ctx context.Context, state types.InvoiceState) ([]*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
	FROM invoices
	WHERE tenant_id = $1 AND state = $2 AND status = $3
	ORDER BY invoice_date, id
	`

	var invoices []*invoice.Invoice
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, types.GetTenantID(ctx), state, types.StatusPublished); err != nil {
		return nil, wrapQueryError(err, "listing invoices failed")
	}

	for _, inv := range invoices {
		if err := r.loadLines(ctx, inv); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *invoiceRepository) loadLines(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	SELECT
		id, invoice_id, type, origin, product_id, description, quantity, account_id,
		unit, unit_price, sequence, tax_ids, insured_amount
	FROM invoice_lines
	WHERE invoice_id = $1
	ORDER BY sequence, id
	`

	var rows []invoiceLineRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, inv.ID); err != nil {
		return wrapQueryError(err, "listing invoice lines failed")
	}

	inv.Lines = make([]*invoice.InvoiceLine, 0, len(rows))
	for _, row := range rows {
		l := row.InvoiceLine
		l.TaxIDs = []string(row.Taxes)
		inv.Lines = append(inv.Lines, &l)
	}
	return nil
}
