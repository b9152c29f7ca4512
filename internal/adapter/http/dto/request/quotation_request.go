package request

import (
	"fmt"
	"time"

	"securequote/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// FieldError reports a payload field that cannot be turned into a command.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// QuotationIDRequest carries the id of getQuotationById,
// getSensitiveQuotationData (query string) and deleteQuotation (body).
type QuotationIDRequest struct {
	ID *int64 `json:"id" form:"id" binding:"required"`
}

// CreateQuotationRequest is the createQuotation payload. Money accepts JSON
// numbers or numeric strings and is parsed without float conversion.
type CreateQuotationRequest struct {
	ClientName           string           `json:"client_name" binding:"required"`
	ReferenceNumber      string           `json:"reference_number" binding:"required"`
	Status               string           `json:"status" binding:"omitempty,oneof=draft pending approved rejected expired"`
	Title                string           `json:"title" binding:"required"`
	Description          *string          `json:"description"`
	BuyPrice             *decimal.Decimal `json:"buy_price" binding:"required"`
	SalePrice            *decimal.Decimal `json:"sale_price" binding:"required"`
	Margin               *decimal.Decimal `json:"margin" binding:"required"`
	Profit               *decimal.Decimal `json:"profit" binding:"required"`
	CostBasis            *decimal.Decimal `json:"cost_basis" binding:"required"`
	MarkupPercentage     *decimal.Decimal `json:"markup_percentage" binding:"required"`
	InternalNotes        *string          `json:"internal_notes"`
	RiskLevel            string           `json:"risk_level" binding:"omitempty,oneof=low medium high"`
	ConfidentialityLevel string           `json:"confidentiality_level" binding:"omitempty,oneof=restricted confidential top_secret"`
	ExpiresAt            *time.Time       `json:"expires_at"`
}

// ToCommand assumes binding already enforced the required fields.
func (r CreateQuotationRequest) ToCommand() entities.NewQuotation {
	return entities.NewQuotation{
		ClientName:           r.ClientName,
		ReferenceNumber:      r.ReferenceNumber,
		Status:               entities.QuotationStatus(r.Status),
		Title:                r.Title,
		Description:          r.Description,
		BuyPrice:             deref(r.BuyPrice),
		SalePrice:            deref(r.SalePrice),
		Margin:               deref(r.Margin),
		Profit:               deref(r.Profit),
		CostBasis:            deref(r.CostBasis),
		MarkupPercentage:     deref(r.MarkupPercentage),
		InternalNotes:        r.InternalNotes,
		RiskLevel:            entities.RiskLevel(r.RiskLevel),
		ConfidentialityLevel: entities.ConfidentialityLevel(r.ConfidentialityLevel),
		ExpiresAt:            r.ExpiresAt,
	}
}

// UpdateQuotationRequest is the updateQuotation payload: the id plus any
// subset of the creatable fields. Only description, internal_notes and
// expires_at accept null.
type UpdateQuotationRequest struct {
	ID                   *int64                    `json:"id" binding:"required"`
	ClientName           Optional[string]          `json:"client_name"`
	ReferenceNumber      Optional[string]          `json:"reference_number"`
	Status               Optional[string]          `json:"status"`
	Title                Optional[string]          `json:"title"`
	Description          Optional[string]          `json:"description"`
	BuyPrice             Optional[decimal.Decimal] `json:"buy_price"`
	SalePrice            Optional[decimal.Decimal] `json:"sale_price"`
	Margin               Optional[decimal.Decimal] `json:"margin"`
	Profit               Optional[decimal.Decimal] `json:"profit"`
	CostBasis            Optional[decimal.Decimal] `json:"cost_basis"`
	MarkupPercentage     Optional[decimal.Decimal] `json:"markup_percentage"`
	InternalNotes        Optional[string]          `json:"internal_notes"`
	RiskLevel            Optional[string]          `json:"risk_level"`
	ConfidentialityLevel Optional[string]          `json:"confidentiality_level"`
	ExpiresAt            Optional[time.Time]       `json:"expires_at"`
}

func (r UpdateQuotationRequest) ToPatch() (entities.QuotationPatch, error) {
	required := []struct {
		name string
		opt  interface{ isNull() bool }
	}{
		{"client_name", r.ClientName},
		{"reference_number", r.ReferenceNumber},
		{"status", r.Status},
		{"title", r.Title},
		{"buy_price", r.BuyPrice},
		{"sale_price", r.SalePrice},
		{"margin", r.Margin},
		{"profit", r.Profit},
		{"cost_basis", r.CostBasis},
		{"markup_percentage", r.MarkupPercentage},
		{"risk_level", r.RiskLevel},
		{"confidentiality_level", r.ConfidentialityLevel},
	}
	for _, f := range required {
		if f.opt.isNull() {
			return entities.QuotationPatch{}, &FieldError{Field: f.name, Reason: "must not be null"}
		}
	}

	p := entities.QuotationPatch{
		ClientName:       r.ClientName.ptr(),
		ReferenceNumber:  r.ReferenceNumber.ptr(),
		Title:            r.Title.ptr(),
		Description:      nullable(r.Description),
		BuyPrice:         r.BuyPrice.ptr(),
		SalePrice:        r.SalePrice.ptr(),
		Margin:           r.Margin.ptr(),
		Profit:           r.Profit.ptr(),
		CostBasis:        r.CostBasis.ptr(),
		MarkupPercentage: r.MarkupPercentage.ptr(),
		InternalNotes:    nullable(r.InternalNotes),
		ExpiresAt:        nullable(r.ExpiresAt),
	}
	if s := r.Status.ptr(); s != nil {
		v := entities.QuotationStatus(*s)
		p.Status = &v
	}
	if s := r.RiskLevel.ptr(); s != nil {
		v := entities.RiskLevel(*s)
		p.RiskLevel = &v
	}
	if s := r.ConfidentialityLevel.ptr(); s != nil {
		v := entities.ConfidentialityLevel(*s)
		p.ConfidentialityLevel = &v
	}
	return p, nil
}

func (o Optional[T]) isNull() bool {
	return o.Present && o.Null
}

func nullable[T any](o Optional[T]) entities.Nullable[T] {
	if !o.Present {
		return entities.Nullable[T]{}
	}
	if o.Null {
		return entities.SetNull[T]()
	}
	return entities.SetTo(o.Value)
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
