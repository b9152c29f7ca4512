package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle of a client quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

// RiskLevel is the internal risk classification of a quotation.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// ConfidentialityLevel is a display-only classification. Nothing in the
// service enforces it.
type ConfidentialityLevel string

const (
	ConfidentialityRestricted   ConfidentialityLevel = "restricted"
	ConfidentialityConfidential ConfidentialityLevel = "confidential"
	ConfidentialityTopSecret    ConfidentialityLevel = "top_secret"
)

var (
	QuotationStatuses     = []QuotationStatus{QuotationStatusDraft, QuotationStatusPending, QuotationStatusApproved, QuotationStatusRejected, QuotationStatusExpired}
	RiskLevels            = []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}
	ConfidentialityLevels = []ConfidentialityLevel{ConfidentialityRestricted, ConfidentialityConfidential, ConfidentialityTopSecret}
)

func (s QuotationStatus) IsValid() bool {
	for _, v := range QuotationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (r RiskLevel) IsValid() bool {
	for _, v := range RiskLevels {
		if r == v {
			return true
		}
	}
	return false
}

func (c ConfidentialityLevel) IsValid() bool {
	for _, v := range ConfidentialityLevels {
		if c == v {
			return true
		}
	}
	return false
}

// Quotation is one client price quote with its internal financial metadata.
//
// Storage model (relational):
//   - PK: id (store-assigned, never reused)
//   - money columns: NUMERIC(15,4); markup_percentage: NUMERIC(5,2)
//
// Money is carried as decimal.Decimal end to end; conversion to a JSON
// number only happens in the HTTP response DTOs.
type Quotation struct {
	ID              int64           `db:"id"`
	ClientName      string          `db:"client_name"`
	ReferenceNumber string          `db:"reference_number"`
	Status          QuotationStatus `db:"status"`
	Title           string          `db:"title"`
	Description     *string         `db:"description"`

	BuyPrice         decimal.Decimal `db:"buy_price"`
	SalePrice        decimal.Decimal `db:"sale_price"`
	Margin           decimal.Decimal `db:"margin"`
	Profit           decimal.Decimal `db:"profit"`
	CostBasis        decimal.Decimal `db:"cost_basis"`
	MarkupPercentage decimal.Decimal `db:"markup_percentage"`

	InternalNotes        *string              `db:"internal_notes"`
	RiskLevel            RiskLevel            `db:"risk_level"`
	ConfidentialityLevel ConfidentialityLevel `db:"confidentiality_level"`

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	ExpiresAt *time.Time `db:"expires_at"`
}

// PublicQuotation is the non-sensitive projection used by the list view.
type PublicQuotation struct {
	ID              int64           `db:"id"`
	ClientName      string          `db:"client_name"`
	ReferenceNumber string          `db:"reference_number"`
	Status          QuotationStatus `db:"status"`
	Title           string          `db:"title"`
	Description     *string         `db:"description"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	ExpiresAt       *time.Time      `db:"expires_at"`
}

// SensitiveQuotation is the financial/classification projection used by the
// detail view. It carries no identity or descriptive fields.
type SensitiveQuotation struct {
	ID                   int64                `db:"id"`
	BuyPrice             decimal.Decimal      `db:"buy_price"`
	SalePrice            decimal.Decimal      `db:"sale_price"`
	Margin               decimal.Decimal      `db:"margin"`
	Profit               decimal.Decimal      `db:"profit"`
	CostBasis            decimal.Decimal      `db:"cost_basis"`
	MarkupPercentage     decimal.Decimal      `db:"markup_percentage"`
	InternalNotes        *string              `db:"internal_notes"`
	RiskLevel            RiskLevel            `db:"risk_level"`
	ConfidentialityLevel ConfidentialityLevel `db:"confidentiality_level"`
}

func (q Quotation) Public() PublicQuotation {
	return PublicQuotation{
		ID:              q.ID,
		ClientName:      q.ClientName,
		ReferenceNumber: q.ReferenceNumber,
		Status:          q.Status,
		Title:           q.Title,
		Description:     q.Description,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		ExpiresAt:       q.ExpiresAt,
	}
}

func (q Quotation) Sensitive() SensitiveQuotation {
	return SensitiveQuotation{
		ID:                   q.ID,
		BuyPrice:             q.BuyPrice,
		SalePrice:            q.SalePrice,
		Margin:               q.Margin,
		Profit:               q.Profit,
		CostBasis:            q.CostBasis,
		MarkupPercentage:     q.MarkupPercentage,
		InternalNotes:        q.InternalNotes,
		RiskLevel:            q.RiskLevel,
		ConfidentialityLevel: q.ConfidentialityLevel,
	}
}
