package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewQuotation is the create command. Optional enums left empty receive
// their defaults in the usecase.
type NewQuotation struct {
	ClientName           string
	ReferenceNumber      string
	Status               QuotationStatus
	Title                string
	Description          *string
	BuyPrice             decimal.Decimal
	SalePrice            decimal.Decimal
	Margin               decimal.Decimal
	Profit               decimal.Decimal
	CostBasis            decimal.Decimal
	MarkupPercentage     decimal.Decimal
	InternalNotes        *string
	RiskLevel            RiskLevel
	ConfidentialityLevel ConfidentialityLevel
	ExpiresAt            *time.Time
}

// Nullable is a patch slot for a nullable column: Set reports whether the
// caller supplied the field at all, Value is nil for an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func SetTo[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func SetNull[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// QuotationPatch is a sparse update. Nil pointers and unset Nullable slots
// leave the stored value untouched.
type QuotationPatch struct {
	ClientName           *string
	ReferenceNumber      *string
	Status               *QuotationStatus
	Title                *string
	Description          Nullable[string]
	BuyPrice             *decimal.Decimal
	SalePrice            *decimal.Decimal
	Margin               *decimal.Decimal
	Profit               *decimal.Decimal
	CostBasis            *decimal.Decimal
	MarkupPercentage     *decimal.Decimal
	InternalNotes        Nullable[string]
	RiskLevel            *RiskLevel
	ConfidentialityLevel *ConfidentialityLevel
	ExpiresAt            Nullable[time.Time]
}
