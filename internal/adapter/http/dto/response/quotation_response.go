package response

import (
	"time"

	"securequote/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Money renders a decimal as a bare JSON number using its exact string form.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).String()), nil
}

// Envelope wraps every successful RPC result. Data is null for not-found.
type Envelope struct {
	Data any `json:"data"`
}

type QuotationResponse struct {
	ID                   int64      `json:"id"`
	ClientName           string     `json:"client_name"`
	ReferenceNumber      string     `json:"reference_number"`
	Status               string     `json:"status"`
	Title                string     `json:"title"`
	Description          *string    `json:"description"`
	BuyPrice             Money      `json:"buy_price"`
	SalePrice            Money      `json:"sale_price"`
	Margin               Money      `json:"margin"`
	Profit               Money      `json:"profit"`
	CostBasis            Money      `json:"cost_basis"`
	MarkupPercentage     Money      `json:"markup_percentage"`
	InternalNotes        *string    `json:"internal_notes"`
	RiskLevel            string     `json:"risk_level"`
	ConfidentialityLevel string     `json:"confidentiality_level"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	ExpiresAt            *time.Time `json:"expires_at"`
}

type PublicQuotationResponse struct {
	ID              int64      `json:"id"`
	ClientName      string     `json:"client_name"`
	ReferenceNumber string     `json:"reference_number"`
	Status          string     `json:"status"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

type SensitiveQuotationResponse struct {
	ID                   int64   `json:"id"`
	BuyPrice             Money   `json:"buy_price"`
	SalePrice            Money   `json:"sale_price"`
	Margin               Money   `json:"margin"`
	Profit               Money   `json:"profit"`
	CostBasis            Money   `json:"cost_basis"`
	MarkupPercentage     Money   `json:"markup_percentage"`
	InternalNotes        *string `json:"internal_notes"`
	RiskLevel            string  `json:"risk_level"`
	ConfidentialityLevel string  `json:"confidentiality_level"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func FromQuotation(q entities.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:                   q.ID,
		ClientName:           q.ClientName,
		ReferenceNumber:      q.ReferenceNumber,
		Status:               string(q.Status),
		Title:                q.Title,
		Description:          q.Description,
		BuyPrice:             Money(q.BuyPrice),
		SalePrice:            Money(q.SalePrice),
		Margin:               Money(q.Margin),
		Profit:               Money(q.Profit),
		CostBasis:            Money(q.CostBasis),
		MarkupPercentage:     Money(q.MarkupPercentage),
		InternalNotes:        q.InternalNotes,
		RiskLevel:            string(q.RiskLevel),
		ConfidentialityLevel: string(q.ConfidentialityLevel),
		CreatedAt:            q.CreatedAt,
		UpdatedAt:            q.UpdatedAt,
		ExpiresAt:            q.ExpiresAt,
	}
}

// FromQuotationPtr keeps not-found as a nil pointer so it encodes as null.
func FromQuotationPtr(q *entities.Quotation) *QuotationResponse {
	if q == nil {
		return nil
	}
	r := FromQuotation(*q)
	return &r
}

func FromPublicQuotations(items []entities.PublicQuotation) []PublicQuotationResponse {
	out := make([]PublicQuotationResponse, 0, len(items))
	for _, p := range items {
		out = append(out, PublicQuotationResponse{
			ID:              p.ID,
			ClientName:      p.ClientName,
			ReferenceNumber: p.ReferenceNumber,
			Status:          string(p.Status),
			Title:           p.Title,
			Description:     p.Description,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
			ExpiresAt:       p.ExpiresAt,
		})
	}
	return out
}

func FromSensitiveQuotation(s *entities.SensitiveQuotation) *SensitiveQuotationResponse {
	if s == nil {
		return nil
	}
	return &SensitiveQuotationResponse{
		ID:                   s.ID,
		BuyPrice:             Money(s.BuyPrice),
		SalePrice:            Money(s.SalePrice),
		Margin:               Money(s.Margin),
		Profit:               Money(s.Profit),
		CostBasis:            Money(s.CostBasis),
		MarkupPercentage:     Money(s.MarkupPercentage),
		InternalNotes:        s.InternalNotes,
		RiskLevel:            string(s.RiskLevel),
		ConfidentialityLevel: string(s.ConfidentialityLevel),
	}
}
