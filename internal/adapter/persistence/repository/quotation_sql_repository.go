package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"securequote/internal/domain/entities"
	"securequote/internal/usecase/interfaces"

	"github.com/jmoiron/sqlx"
)

const quotationsTable = "quotations"

var (
	publicColumns = []string{
		"id", "client_name", "reference_number", "status", "title", "description",
		"created_at", "updated_at", "expires_at",
	}
	sensitiveColumns = []string{
		"id", "buy_price", "sale_price", "margin", "profit", "cost_basis", "markup_percentage",
		"internal_notes", "risk_level", "confidentiality_level",
	}
	allColumns = []string{
		"id", "client_name", "reference_number", "status", "title", "description",
		"buy_price", "sale_price", "margin", "profit", "cost_basis", "markup_percentage",
		"internal_notes", "risk_level", "confidentiality_level",
		"created_at", "updated_at", "expires_at",
	}
)

// QuotationSQLRepository persists quotations in a relational table through
// sqlx. It works against sqlite and postgres; placeholders are rebound per
// driver.
type QuotationSQLRepository struct {
	db *sqlx.DB
}

var _ interfaces.IQuotationRepository = (*QuotationSQLRepository)(nil)

func NewQuotationSQLRepository(db *sqlx.DB) *QuotationSQLRepository {
	return &QuotationSQLRepository{db: db}
}

func (r *QuotationSQLRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	query := r.db.Rebind(`INSERT INTO quotations (
            client_name, reference_number, status, title, description,
            buy_price, sale_price, margin, profit, cost_basis, markup_percentage,
            internal_notes, risk_level, confidentiality_level,
            created_at, updated_at, expires_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entities.Quotation{}, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowxContext(ctx, query,
		q.ClientName, q.ReferenceNumber, string(q.Status), q.Title, q.Description,
		q.BuyPrice, q.SalePrice, q.Margin, q.Profit, q.CostBasis, q.MarkupPercentage,
		q.InternalNotes, string(q.RiskLevel), string(q.ConfidentialityLevel),
		q.CreatedAt, q.UpdatedAt, q.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return entities.Quotation{}, err
	}

	created, err := getByID(ctx, tx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if created == nil {
		return entities.Quotation{}, fmt.Errorf("quotation %d vanished after insert", id)
	}
	if err := tx.Commit(); err != nil {
		return entities.Quotation{}, err
	}
	return *created, nil
}

func (r *QuotationSQLRepository) GetByID(ctx context.Context, id int64) (*entities.Quotation, error) {
	return getByID(ctx, r.db, id)
}

func (r *QuotationSQLRepository) GetSensitiveByID(ctx context.Context, id int64) (*entities.SensitiveQuotation, error) {
	query := r.db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(sensitiveColumns, ", "), quotationsTable))

	var s entities.SensitiveQuotation
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *QuotationSQLRepository) ListPublic(ctx context.Context) ([]entities.PublicQuotation, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(publicColumns, ", "), quotationsTable)

	items := []entities.PublicQuotation{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].CreatedAt = items[i].CreatedAt.UTC()
		items[i].UpdatedAt = items[i].UpdatedAt.UTC()
		items[i].ExpiresAt = utcPtr(items[i].ExpiresAt)
	}
	return items, nil
}

// Update writes only the supplied columns plus updated_at. Existence is
// checked inside the same transaction so a missing id performs no write.
func (r *QuotationSQLRepository) Update(ctx context.Context, id int64, patch entities.QuotationPatch, updatedAt time.Time) (*entities.Quotation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	sets, args := buildSetClause(patch, updatedAt)
	args = append(args, id)
	query := tx.Rebind(fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quotationsTable, strings.Join(sets, ", ")))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	updated, err := getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *QuotationSQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM quotations WHERE id = ?"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func getByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*entities.Quotation, error) {
	query := sqlx.Rebind(sqlx.BindType(driverOf(q)), fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(allColumns, ", "), quotationsTable))

	var out entities.Quotation
	if err := sqlx.GetContext(ctx, q, &out, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()
	out.ExpiresAt = utcPtr(out.ExpiresAt)
	return &out, nil
}

func driverOf(q sqlx.QueryerContext) string {
	switch v := q.(type) {
	case *sqlx.DB:
		return v.DriverName()
	case *sqlx.Tx:
		return v.DriverName()
	default:
		return ""
	}
}

func buildSetClause(p entities.QuotationPatch, updatedAt time.Time) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.ClientName != nil {
		add("client_name", *p.ClientName)
	}
	if p.ReferenceNumber != nil {
		add("reference_number", *p.ReferenceNumber)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.BuyPrice != nil {
		add("buy_price", *p.BuyPrice)
	}
	if p.SalePrice != nil {
		add("sale_price", *p.SalePrice)
	}
	if p.Margin != nil {
		add("margin", *p.Margin)
	}
	if p.Profit != nil {
		add("profit", *p.Profit)
	}
	if p.CostBasis != nil {
		add("cost_basis", *p.CostBasis)
	}
	if p.MarkupPercentage != nil {
		add("markup_percentage", *p.MarkupPercentage)
	}
	if p.InternalNotes.Set {
		add("internal_notes", p.InternalNotes.Value)
	}
	if p.RiskLevel != nil {
		add("risk_level", string(*p.RiskLevel))
	}
	if p.ConfidentialityLevel != nil {
		add("confidentiality_level", string(*p.ConfidentialityLevel))
	}
	if p.ExpiresAt.Set {
		add("expires_at", p.ExpiresAt.Value)
	}
	add("updated_at", updatedAt)
	return sets, args
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
