package interfaces

import (
	"context"
	"securequote/internal/domain/entities"
	"time"
)

//go:generate mockgen -source=quotation_repository_interface.go -destination=mocks/mock_quotation_repository_interface.go -package=mock_interfaces

// IQuotationRepository abstracts persistence for Quotation.
//
// Lookups return (nil, nil) when no row matches; errors are reserved for
// store failures. Projections are produced by the store so sensitive columns
// are never read for the public list and vice versa.
type IQuotationRepository interface {
	Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	GetByID(ctx context.Context, id int64) (*entities.Quotation, error)
	GetSensitiveByID(ctx context.Context, id int64) (*entities.SensitiveQuotation, error)
	ListPublic(ctx context.Context) ([]entities.PublicQuotation, error)
	Update(ctx context.Context, id int64, patch entities.QuotationPatch, updatedAt time.Time) (*entities.Quotation, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
