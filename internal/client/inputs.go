package client

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuotationInput is the createQuotation payload. Empty enums take the
// server defaults (draft, medium, restricted).
type CreateQuotationInput struct {
	ClientName           string          `json:"client_name"`
	ReferenceNumber      string          `json:"reference_number"`
	Status               string          `json:"status,omitempty"`
	Title                string          `json:"title"`
	Description          *string         `json:"description,omitempty"`
	BuyPrice             decimal.Decimal `json:"buy_price"`
	SalePrice            decimal.Decimal `json:"sale_price"`
	Margin               decimal.Decimal `json:"margin"`
	Profit               decimal.Decimal `json:"profit"`
	CostBasis            decimal.Decimal `json:"cost_basis"`
	MarkupPercentage     decimal.Decimal `json:"markup_percentage"`
	InternalNotes        *string         `json:"internal_notes,omitempty"`
	RiskLevel            string          `json:"risk_level,omitempty"`
	ConfidentialityLevel string          `json:"confidentiality_level,omitempty"`
	ExpiresAt            *time.Time      `json:"expires_at,omitempty"`
}

// Nullable is an update slot for a nullable field. The zero value leaves the
// field untouched; Clear sends an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func Clear[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) IsZero() bool { return !n.Set }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// UpdateQuotationInput is a sparse updateQuotation payload. Nil pointers and
// unset Nullable slots are not sent.
type UpdateQuotationInput struct {
	ClientName           *string             `json:"client_name,omitempty"`
	ReferenceNumber      *string             `json:"reference_number,omitempty"`
	Status               *string             `json:"status,omitempty"`
	Title                *string             `json:"title,omitempty"`
	Description          Nullable[string]    `json:"description,omitzero"`
	BuyPrice             *decimal.Decimal    `json:"buy_price,omitempty"`
	SalePrice            *decimal.Decimal    `json:"sale_price,omitempty"`
	Margin               *decimal.Decimal    `json:"margin,omitempty"`
	Profit               *decimal.Decimal    `json:"profit,omitempty"`
	CostBasis            *decimal.Decimal    `json:"cost_basis,omitempty"`
	MarkupPercentage     *decimal.Decimal    `json:"markup_percentage,omitempty"`
	InternalNotes        Nullable[string]    `json:"internal_notes,omitzero"`
	RiskLevel            *string             `json:"risk_level,omitempty"`
	ConfidentialityLevel *string             `json:"confidentiality_level,omitempty"`
	ExpiresAt            Nullable[time.Time] `json:"expires_at,omitzero"`
}
