package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"securequote/internal/domain/entities"
	"securequote/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("securequote/usecase")

//go:generate mockgen -source=quotation_usecase.go -destination=../adapter/http/handlers/mocks/mock_quotation_usecase.go -package=mocks

// IQuotationUseCase exposes the quotation operations of the RPC surface.
//
// Lookups and updates return (nil, nil) when the id does not exist; only
// validation and store failures are errors.
type IQuotationUseCase interface {
	CreateQuotation(ctx context.Context, in entities.NewQuotation) (entities.Quotation, error)
	GetQuotationByID(ctx context.Context, id int64) (*entities.Quotation, error)
	GetSensitiveQuotationData(ctx context.Context, id int64) (*entities.SensitiveQuotation, error)
	ListPublicQuotations(ctx context.Context) ([]entities.PublicQuotation, error)
	UpdateQuotation(ctx context.Context, id int64, patch entities.QuotationPatch) (*entities.Quotation, error)
	DeleteQuotation(ctx context.Context, id int64) (bool, error)
}

type QuotationUseCase struct {
	repo interfaces.IQuotationRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

func NewQuotationUseCase(repo interfaces.IQuotationRepository, log logrus.FieldLogger) *QuotationUseCase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QuotationUseCase{repo: repo, log: log, now: utcNow}
}

// utcNow is truncated to microseconds so timestamps survive every store unchanged.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (u *QuotationUseCase) CreateQuotation(ctx context.Context, in entities.NewQuotation) (entities.Quotation, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.CreateQuotation")
	defer span.End()

	in, err := normalizeNew(in)
	if err != nil {
		return entities.Quotation{}, err
	}

	now := u.now()
	q := entities.Quotation{
		ClientName:           in.ClientName,
		ReferenceNumber:      in.ReferenceNumber,
		Status:               in.Status,
		Title:                in.Title,
		Description:          in.Description,
		BuyPrice:             in.BuyPrice,
		SalePrice:            in.SalePrice,
		Margin:               in.Margin,
		Profit:               in.Profit,
		CostBasis:            in.CostBasis,
		MarkupPercentage:     in.MarkupPercentage,
		InternalNotes:        in.InternalNotes,
		RiskLevel:            in.RiskLevel,
		ConfidentialityLevel: in.ConfidentialityLevel,
		CreatedAt:            now,
		UpdatedAt:            now,
		ExpiresAt:            in.ExpiresAt,
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		return entities.Quotation{}, u.storeFailure(span, "create", 0, err)
	}
	span.SetAttributes(attribute.Int64("quotation.id", created.ID))
	u.log.WithField("quotation_id", created.ID).Info("[quotation][usecase] created")
	return created, nil
}

func (u *QuotationUseCase) GetQuotationByID(ctx context.Context, id int64) (*entities.Quotation, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.GetQuotationByID", trace.WithAttributes(attribute.Int64("quotation.id", id)))
	defer span.End()

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeFailure(span, "get", id, err)
	}
	return q, nil
}

func (u *QuotationUseCase) GetSensitiveQuotationData(ctx context.Context, id int64) (*entities.SensitiveQuotation, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.GetSensitiveQuotationData", trace.WithAttributes(attribute.Int64("quotation.id", id)))
	defer span.End()

	s, err := u.repo.GetSensitiveByID(ctx, id)
	if err != nil {
		return nil, u.storeFailure(span, "get-sensitive", id, err)
	}
	return s, nil
}

func (u *QuotationUseCase) ListPublicQuotations(ctx context.Context) ([]entities.PublicQuotation, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.ListPublicQuotations")
	defer span.End()

	items, err := u.repo.ListPublic(ctx)
	if err != nil {
		return nil, u.storeFailure(span, "list-public", 0, err)
	}
	if items == nil {
		items = []entities.PublicQuotation{}
	}
	span.SetAttributes(attribute.Int("quotation.count", len(items)))
	return items, nil
}

func (u *QuotationUseCase) UpdateQuotation(ctx context.Context, id int64, patch entities.QuotationPatch) (*entities.Quotation, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.UpdateQuotation", trace.WithAttributes(attribute.Int64("quotation.id", id)))
	defer span.End()

	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	updated, err := u.repo.Update(ctx, id, patch, u.now())
	if err != nil {
		return nil, u.storeFailure(span, "update", id, err)
	}
	if updated == nil {
		u.log.WithField("quotation_id", id).Info("[quotation][usecase] update not-found")
		return nil, nil
	}
	u.log.WithField("quotation_id", id).Info("[quotation][usecase] updated")
	return updated, nil
}

func (u *QuotationUseCase) DeleteQuotation(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "QuotationUseCase.DeleteQuotation", trace.WithAttributes(attribute.Int64("quotation.id", id)))
	defer span.End()

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return false, u.storeFailure(span, "delete", id, err)
	}
	u.log.WithFields(logrus.Fields{"quotation_id": id, "deleted": deleted}).Info("[quotation][usecase] delete")
	return deleted, nil
}

func (u *QuotationUseCase) storeFailure(span trace.Span, op string, id int64, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	fields := logrus.Fields{"op": op, "err": err}
	if id != 0 {
		fields["quotation_id"] = id
	}
	u.log.WithFields(fields).Error("[quotation][usecase] store failure")
	return fmt.Errorf("quotation %s: %w", op, err)
}

// IsValidationError reports whether err was caused by rejected input.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
