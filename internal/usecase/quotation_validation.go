package usecase

import (
	"fmt"
	"strings"

	"securequote/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Column limits of the quotations table.
const (
	moneyScale      = 4
	moneyIntDigits  = 11 // NUMERIC(15,4)
	markupScale     = 2
	markupIntDigits = 3 // NUMERIC(5,2)
)

// ValidationError reports the offending input field of a rejected command.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "must not be empty")
	}
	return v, nil
}

// optionalText maps blank strings to null.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

type sign int

const (
	anySign sign = iota
	positive
	nonNegative
)

func checkDecimal(field string, d decimal.Decimal, scale int32, intDigits int, want sign) error {
	switch want {
	case positive:
		if d.Sign() <= 0 {
			return invalid(field, "must be greater than zero")
		}
	case nonNegative:
		if d.Sign() < 0 {
			return invalid(field, "must not be negative")
		}
	}
	if d.IsZero() {
		return nil
	}

	// Decided from coefficient length and exponent only; rescaling costs O(10^|exp|).
	coef := d.Coefficient()
	digits := int64(len(coef.Abs(coef).String()))
	exp := int64(d.Exponent())
	if digits+exp > int64(intDigits) {
		return invalid(field, fmt.Sprintf("must be less than 1e%d in magnitude", intDigits))
	}
	if exp < -int64(scale) {
		// The extra fractional digits must all be trailing zeros of the coefficient.
		extra := -int64(scale) - exp
		if extra >= digits || !d.Equal(d.Truncate(scale)) {
			return invalid(field, fmt.Sprintf("must have at most %d decimal places", scale))
		}
	}
	return nil
}

func checkMoney(field string, d decimal.Decimal, want sign) error {
	return checkDecimal(field, d, moneyScale, moneyIntDigits, want)
}

func checkMarkup(d decimal.Decimal) error {
	return checkDecimal("markup_percentage", d, markupScale, markupIntDigits, nonNegative)
}

func checkStatus(s entities.QuotationStatus) error {
	if !s.IsValid() {
		return invalid("status", fmt.Sprintf("unknown value %q", s))
	}
	return nil
}

func checkRisk(r entities.RiskLevel) error {
	if !r.IsValid() {
		return invalid("risk_level", fmt.Sprintf("unknown value %q", r))
	}
	return nil
}

func checkConfidentiality(c entities.ConfidentialityLevel) error {
	if !c.IsValid() {
		return invalid("confidentiality_level", fmt.Sprintf("unknown value %q", c))
	}
	return nil
}

// normalizeNew validates a create command and fills enum defaults.
func normalizeNew(in entities.NewQuotation) (entities.NewQuotation, error) {
	var err error
	if in.ClientName, err = requireText("client_name", in.ClientName); err != nil {
		return in, err
	}
	if in.ReferenceNumber, err = requireText("reference_number", in.ReferenceNumber); err != nil {
		return in, err
	}
	if in.Title, err = requireText("title", in.Title); err != nil {
		return in, err
	}
	in.Description = optionalText(in.Description)
	in.InternalNotes = optionalText(in.InternalNotes)

	if in.Status == "" {
		in.Status = entities.QuotationStatusDraft
	}
	if in.RiskLevel == "" {
		in.RiskLevel = entities.RiskLevelMedium
	}
	if in.ConfidentialityLevel == "" {
		in.ConfidentialityLevel = entities.ConfidentialityRestricted
	}

	checks := []error{
		checkStatus(in.Status),
		checkMoney("buy_price", in.BuyPrice, positive),
		checkMoney("sale_price", in.SalePrice, positive),
		checkMoney("margin", in.Margin, anySign),
		checkMoney("profit", in.Profit, anySign),
		checkMoney("cost_basis", in.CostBasis, positive),
		checkMarkup(in.MarkupPercentage),
		checkRisk(in.RiskLevel),
		checkConfidentiality(in.ConfidentialityLevel),
	}
	for _, c := range checks {
		if c != nil {
			return in, c
		}
	}
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		in.ExpiresAt = &t
	}
	return in, nil
}

// normalizePatch applies the create rules to every field present in the patch.
func normalizePatch(p entities.QuotationPatch) (entities.QuotationPatch, error) {
	for _, f := range []struct {
		name string
		v    **string
	}{
		{"client_name", &p.ClientName},
		{"reference_number", &p.ReferenceNumber},
		{"title", &p.Title},
	} {
		if *f.v == nil {
			continue
		}
		s, err := requireText(f.name, **f.v)
		if err != nil {
			return p, err
		}
		*f.v = &s
	}
	if p.Description.Set {
		p.Description.Value = optionalText(p.Description.Value)
	}
	if p.InternalNotes.Set {
		p.InternalNotes.Value = optionalText(p.InternalNotes.Value)
	}
	if p.ExpiresAt.Set && p.ExpiresAt.Value != nil {
		t := p.ExpiresAt.Value.UTC()
		p.ExpiresAt.Value = &t
	}

	money := []struct {
		name string
		v    *decimal.Decimal
		want sign
	}{
		{"buy_price", p.BuyPrice, positive},
		{"sale_price", p.SalePrice, positive},
		{"margin", p.Margin, anySign},
		{"profit", p.Profit, anySign},
		{"cost_basis", p.CostBasis, positive},
	}
	for _, m := range money {
		if m.v == nil {
			continue
		}
		if err := checkMoney(m.name, *m.v, m.want); err != nil {
			return p, err
		}
	}
	if p.MarkupPercentage != nil {
		if err := checkMarkup(*p.MarkupPercentage); err != nil {
			return p, err
		}
	}
	if p.Status != nil {
		if err := checkStatus(*p.Status); err != nil {
			return p, err
		}
	}
	if p.RiskLevel != nil {
		if err := checkRisk(*p.RiskLevel); err != nil {
			return p, err
		}
	}
	if p.ConfidentialityLevel != nil {
		if err := checkConfidentiality(*p.ConfidentialityLevel); err != nil {
			return p, err
		}
	}
	return p, nil
}
