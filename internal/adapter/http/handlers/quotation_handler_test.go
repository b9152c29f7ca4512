package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"securequote/internal/adapter/http/handlers/mocks"
	"securequote/internal/domain/entities"
	"securequote/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIQuotationUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIQuotationUseCase(ctrl)
	logger, _ := test.NewNullLogger()
	h := NewQuotationHandler(uc, logger)

	r := gin.New()
	r.GET("/v1/rpc/listPublicQuotations", h.ListPublicQuotations)
	r.GET("/v1/rpc/getQuotationById", h.GetQuotationByID)
	r.GET("/v1/rpc/getSensitiveQuotationData", h.GetSensitiveQuotationData)
	r.POST("/v1/rpc/createQuotation", h.CreateQuotation)
	r.POST("/v1/rpc/updateQuotation", h.UpdateQuotation)
	r.POST("/v1/rpc/deleteQuotation", h.DeleteQuotation)
	return r, uc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return e
}

func storedQuotation() entities.Quotation {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return entities.Quotation{
		ID:                   1,
		ClientName:           "Acme",
		ReferenceNumber:      "QT-1",
		Status:               entities.QuotationStatusDraft,
		Title:                "License",
		BuyPrice:             decimal.RequireFromString("100"),
		SalePrice:            decimal.RequireFromString("150"),
		Margin:               decimal.RequireFromString("50"),
		Profit:               decimal.RequireFromString("45"),
		CostBasis:            decimal.RequireFromString("95"),
		MarkupPercentage:     decimal.RequireFromString("50"),
		RiskLevel:            entities.RiskLevelMedium,
		ConfidentialityLevel: entities.ConfidentialityRestricted,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

const acmePayload = `{"client_name":"Acme","reference_number":"QT-1","title":"License","buy_price":100,"sale_price":150,"margin":50,"profit":45,"cost_basis":95,"markup_percentage":50}`

func TestQuotationHandler_CreateQuotation(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing required field reports json name", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", `{"client_name":"Acme","reference_number":"QT-1","title":"License"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Field != "buy_price" {
			t.Fatalf("expected field buy_price, got %+v", e)
		}
	})

	t.Run("unknown status rejected by binding", func(t *testing.T) {
		r, _ := newTestRouter(t)
		body := strings.Replace(acmePayload, `"title"`, `"status":"archived","title"`, 1)
		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Field != "status" {
			t.Fatalf("expected field status, got %+v", e)
		}
	})

	t.Run("usecase validation error", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, &usecase.ValidationError{Field: "buy_price", Reason: "must be greater than zero"})

		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", acmePayload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Code != "VALIDATION_ERROR" || e.Field != "buy_price" {
			t.Fatalf("unexpected error body: %+v", e)
		}
	})

	t.Run("store failure is opaque", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, errors.New("pq: connection refused"))

		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", acmePayload)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Fatalf("internal details leaked: %s", w.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in entities.NewQuotation) (entities.Quotation, error) {
				if !in.BuyPrice.Equal(decimal.RequireFromString("100")) || in.ClientName != "Acme" {
					t.Fatalf("unexpected command: %+v", in)
				}
				return storedQuotation(), nil
			})

		w := do(r, http.MethodPost, "/v1/rpc/createQuotation", acmePayload)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Data["id"] != float64(1) || body.Data["status"] != "draft" || body.Data["description"] != nil {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})
}

func TestQuotationHandler_GetQuotationByID(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodGet, "/v1/rpc/getQuotationById", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Field != "id" {
			t.Fatalf("expected field id, got %+v", e)
		}
	})

	t.Run("non numeric id", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodGet, "/v1/rpc/getQuotationById?id=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("negative id is data null", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().GetQuotationByID(gomock.Any(), int64(-1)).Return(nil, nil)
		w := do(r, http.MethodGet, "/v1/rpc/getQuotationById?id=-1", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"data":null}` {
			t.Fatalf("expected 200 data null, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("not found is data null", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().GetQuotationByID(gomock.Any(), int64(42)).Return(nil, nil)
		w := do(r, http.MethodGet, "/v1/rpc/getQuotationById?id=42", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"data":null}` {
			t.Fatalf("expected 200 data null, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("found", func(t *testing.T) {
		r, uc := newTestRouter(t)
		q := storedQuotation()
		uc.EXPECT().GetQuotationByID(gomock.Any(), int64(1)).Return(&q, nil)
		w := do(r, http.MethodGet, "/v1/rpc/getQuotationById?id=1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"buy_price":100`) || !strings.Contains(w.Body.String(), `"client_name":"Acme"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQuotationHandler_GetSensitiveQuotationData(t *testing.T) {
	r, uc := newTestRouter(t)
	s := storedQuotation().Sensitive()
	uc.EXPECT().GetSensitiveQuotationData(gomock.Any(), int64(1)).Return(&s, nil)

	w := do(r, http.MethodGet, "/v1/rpc/getSensitiveQuotationData?id=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, k := range []string{"client_name", "reference_number", "title", "status", "created_at"} {
		if strings.Contains(w.Body.String(), `"`+k+`"`) {
			t.Fatalf("sensitive response leaks %s: %s", k, w.Body.String())
		}
	}
	if !strings.Contains(w.Body.String(), `"markup_percentage":50`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestQuotationHandler_ListPublicQuotations(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().ListPublicQuotations(gomock.Any()).Return([]entities.PublicQuotation{}, nil)
		w := do(r, http.MethodGet, "/v1/rpc/listPublicQuotations", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"data":[]}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("no sensitive fields", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().ListPublicQuotations(gomock.Any()).Return([]entities.PublicQuotation{storedQuotation().Public()}, nil)
		w := do(r, http.MethodGet, "/v1/rpc/listPublicQuotations", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		for _, k := range []string{"buy_price", "sale_price", "margin", "profit", "cost_basis", "markup_percentage", "internal_notes", "risk_level", "confidentiality_level"} {
			if strings.Contains(w.Body.String(), `"`+k+`"`) {
				t.Fatalf("public list leaks %s", k)
			}
		}
	})

	t.Run("store failure", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().ListPublicQuotations(gomock.Any()).Return(nil, errors.New("boom"))
		w := do(r, http.MethodGet, "/v1/rpc/listPublicQuotations", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Code != "INTERNAL_ERROR" {
			t.Fatalf("unexpected code: %+v", e)
		}
	})
}

func TestQuotationHandler_UpdateQuotation(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/rpc/updateQuotation", `{"status":"approved"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Field != "id" {
			t.Fatalf("expected field id, got %+v", e)
		}
	})

	t.Run("null on non-nullable field", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/rpc/updateQuotation", `{"id":1,"title":null}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Field != "title" {
			t.Fatalf("expected field title, got %+v", e)
		}
	})

	t.Run("sparse patch forwarded", func(t *testing.T) {
		r, uc := newTestRouter(t)
		approved := entities.QuotationStatusApproved
		want := entities.QuotationPatch{Status: &approved, InternalNotes: entities.SetNull[string]()}
		q := storedQuotation()
		q.Status = approved
		uc.EXPECT().UpdateQuotation(gomock.Any(), int64(1), want).Return(&q, nil)

		w := do(r, http.MethodPost, "/v1/rpc/updateQuotation", `{"id":1,"status":"approved","internal_notes":null}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"status":"approved"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().UpdateQuotation(gomock.Any(), int64(7), gomock.Any()).Return(nil, nil)
		w := do(r, http.MethodPost, "/v1/rpc/updateQuotation", `{"id":7,"title":"x"}`)
		if w.Code != http.StatusOK || w.Body.String() != `{"data":null}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})
}

func TestQuotationHandler_DeleteQuotation(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().DeleteQuotation(gomock.Any(), int64(3)).Return(true, nil)
		w := do(r, http.MethodPost, "/v1/rpc/deleteQuotation", `{"id":3}`)
		if w.Code != http.StatusOK || w.Body.String() != `{"data":true}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("nothing to delete", func(t *testing.T) {
		r, uc := newTestRouter(t)
		uc.EXPECT().DeleteQuotation(gomock.Any(), int64(3)).Return(false, nil)
		w := do(r, http.MethodPost, "/v1/rpc/deleteQuotation", `{"id":3}`)
		if w.Code != http.StatusOK || w.Body.String() != `{"data":false}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := do(r, http.MethodPost, "/v1/rpc/deleteQuotation", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	r := gin.New()
	r.GET("/v1/rpc/healthcheck", h.Healthcheck)
	w := do(r, http.MethodGet, "/v1/rpc/healthcheck", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"data":{"status":"ok","timestamp":"2026-01-01T00:00:00Z"}}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
