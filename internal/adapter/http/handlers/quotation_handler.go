package handlers

import (
	"errors"
	"net/http"

	request "securequote/internal/adapter/http/dto/request"
	response "securequote/internal/adapter/http/dto/response"
	"securequote/internal/usecase"
	"securequote/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	errInvalidQuotationPayload = pkg.NewDomainErrorSimple("INVALID_QUOTATION_INPUT", "Invalid quotation payload", http.StatusBadRequest)
	errInvalidQuotationID      = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid quotation id", http.StatusBadRequest).WithField("id")
)

// QuotationHandler exposes the quotation operations as RPC-style endpoints.
// Every success is wrapped in {"data": ...}; not-found is data null.
type QuotationHandler struct {
	usecase usecase.IQuotationUseCase
	log     logrus.FieldLogger
}

func NewQuotationHandler(uc usecase.IQuotationUseCase, log logrus.FieldLogger) *QuotationHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	useJSONFieldNames()
	return &QuotationHandler{usecase: uc, log: log}
}

// ListPublicQuotations godoc
// @Summary      List quotations (public fields only)
// @Tags         quotations
// @Produce      json
// @Success      200  {object}  response.Envelope{data=[]response.PublicQuotationResponse}
// @Failure      500  {object}  pkg.HTTPError
// @Router       /rpc/listPublicQuotations [get]
func (h *QuotationHandler) ListPublicQuotations(c *gin.Context) {
	items, err := h.usecase.ListPublicQuotations(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Data: response.FromPublicQuotations(items)})
}

// GetQuotationByID godoc
// @Summary      Get a full quotation
// @Tags         quotations
// @Produce      json
// @Param        id   query     int  true  "Quotation id"
// @Success      200  {object}  response.Envelope{data=response.QuotationResponse}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      500  {object}  pkg.HTTPError
// @Router       /rpc/getQuotationById [get]
func (h *QuotationHandler) GetQuotationByID(c *gin.Context) {
	var in request.QuotationIDRequest
	if err := c.ShouldBindQuery(&in); err != nil {
		writeError(c, errInvalidQuotationID)
		return
	}

	q, err := h.usecase.GetQuotationByID(c.Request.Context(), *in.ID)
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Data: response.FromQuotationPtr(q)})
}

// GetSensitiveQuotationData godoc
// @Summary      Get the financial and classification fields of a quotation
// @Tags         quotations
// @Produce      json
// @Param        id   query     int  true  "Quotation id"
// @Success      200  {object}  response.Envelope{data=response.SensitiveQuotationResponse}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      500  {object}  pkg.HTTPError
// @Router       /rpc/getSensitiveQuotationData [get]
func (h *QuotationHandler) GetSensitiveQuotationData(c *gin.Context) {
	var in request.QuotationIDRequest
	if err := c.ShouldBindQuery(&in); err != nil {
		writeError(c, errInvalidQuotationID)
		return
	}

	s, err := h.usecase.GetSensitiveQuotationData(c.Request.Context(), *in.ID)
	if err != nil {
		h.fail(c, "get-sensitive", err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Data: response.FromSensitiveQuotation(s)})
}

// CreateQuotation godoc
// @Summary      Create a quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        payload  body      request.CreateQuotationRequest  true  "Quotation"
// @Success      201      {object}  response.Envelope{data=response.QuotationResponse}
// @Failure      400      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Router       /rpc/createQuotation [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var payload request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.WithError(err).Info("[quotation][handler] create invalid payload")
		writeError(c, errInvalidQuotationPayload.WithField(bindingField(err)))
		return
	}

	q, err := h.usecase.CreateQuotation(c.Request.Context(), payload.ToCommand())
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, response.Envelope{Data: response.FromQuotation(q)})
}

// UpdateQuotation godoc
// @Summary      Partially update a quotation
// @Description  Only supplied fields change. description, internal_notes and expires_at accept null.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        payload  body      request.UpdateQuotationRequest  true  "id plus fields to change"
// @Success      200      {object}  response.Envelope{data=response.QuotationResponse}
// @Failure      400      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Router       /rpc/updateQuotation [post]
func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	var payload request.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.WithError(err).Info("[quotation][handler] update invalid payload")
		writeError(c, errInvalidQuotationPayload.WithField(bindingField(err)))
		return
	}

	patch, err := payload.ToPatch()
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	q, err := h.usecase.UpdateQuotation(c.Request.Context(), *payload.ID, patch)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Data: response.FromQuotationPtr(q)})
}

// DeleteQuotation godoc
// @Summary      Delete a quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        payload  body      request.QuotationIDRequest  true  "Quotation id"
// @Success      200      {object}  response.Envelope{data=bool}
// @Failure      400      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Router       /rpc/deleteQuotation [post]
func (h *QuotationHandler) DeleteQuotation(c *gin.Context) {
	var in request.QuotationIDRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, errInvalidQuotationID)
		return
	}

	deleted, err := h.usecase.DeleteQuotation(c.Request.Context(), *in.ID)
	if err != nil {
		h.fail(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Data: deleted})
}

func (h *QuotationHandler) fail(c *gin.Context, op string, err error) {
	appErr := mapQuotationError(err)
	entry := h.log.WithFields(logrus.Fields{"op": op, "code": appErr.Code})
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		entry.WithError(err).Error("[quotation][handler] failed")
	} else {
		entry.WithField("field", appErr.Field).Info("[quotation][handler] rejected")
	}
	writeError(c, appErr)
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapQuotationError(err error) *pkg.AppError {
	var ve *usecase.ValidationError
	var fe *request.FieldError
	switch {
	case errors.As(err, &ve):
		return pkg.NewDomainError("VALIDATION_ERROR", ve.Error(), err, http.StatusBadRequest).WithField(ve.Field)
	case errors.As(err, &fe):
		return pkg.NewDomainError("VALIDATION_ERROR", "invalid "+fe.Error(), err, http.StatusBadRequest).WithField(fe.Field)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
