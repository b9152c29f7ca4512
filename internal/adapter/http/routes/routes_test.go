package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"securequote/internal/adapter/http/handlers"
	"securequote/internal/adapter/persistence/repository"
	"securequote/internal/infrastructure/config"
	"securequote/internal/infrastructure/database"
	"securequote/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestEngine(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.ConnectSQL(config.StoreSQLite, ":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger, _ := test.NewNullLogger()
	uc := usecase.NewQuotationUseCase(repository.NewQuotationSQLRepository(db), logger)

	cfg := config.Default()
	cfg.CORSAllowedOrigins = origins
	return NewRouter(cfg, logger, Handlers{
		Quotation: handlers.NewQuotationHandler(uc, logger),
		Health:    handlers.NewHealthHandler(),
	})
}

func call(t *testing.T, r *gin.Engine, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: invalid body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w
}

func TestRouter_QuotationLifecycle(t *testing.T) {
	r := newTestEngine(t, nil)

	var created struct {
		Data struct {
			ID       int64           `json:"id"`
			Status   string          `json:"status"`
			BuyPrice json.RawMessage `json:"buy_price"`
		} `json:"data"`
	}
	w := call(t, r, http.MethodPost, "/v1/rpc/createQuotation",
		`{"client_name":"Acme","reference_number":"QT-1","title":"License","buy_price":"1234.5678","sale_price":150,"margin":50,"profit":45,"cost_basis":95,"markup_percentage":50}`, &created)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if created.Data.ID <= 0 || created.Data.Status != "draft" || string(created.Data.BuyPrice) != "1234.5678" {
		t.Fatalf("unexpected create result: %s", w.Body.String())
	}
	id := created.Data.ID

	var list struct {
		Data []map[string]any `json:"data"`
	}
	call(t, r, http.MethodGet, "/v1/rpc/listPublicQuotations", "", &list)
	if len(list.Data) != 1 {
		t.Fatalf("expected one quotation, got %d", len(list.Data))
	}
	if _, ok := list.Data[0]["buy_price"]; ok {
		t.Fatalf("public list leaks buy_price")
	}

	var sensitive struct {
		Data map[string]any `json:"data"`
	}
	call(t, r, http.MethodGet, fmt.Sprintf("/v1/rpc/getSensitiveQuotationData?id=%d", id), "", &sensitive)
	if _, ok := sensitive.Data["client_name"]; ok {
		t.Fatalf("sensitive view leaks client_name")
	}
	if sensitive.Data["risk_level"] != "medium" {
		t.Fatalf("unexpected sensitive view: %v", sensitive.Data)
	}

	w = call(t, r, http.MethodPost, "/v1/rpc/updateQuotation", fmt.Sprintf(`{"id":%d,"status":"approved"}`, id), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"approved"`) || !strings.Contains(w.Body.String(), `"buy_price":1234.5678`) {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	w = call(t, r, http.MethodPost, "/v1/rpc/deleteQuotation", fmt.Sprintf(`{"id":%d}`, id), nil)
	if w.Body.String() != `{"data":true}` {
		t.Fatalf("first delete: %s", w.Body.String())
	}
	w = call(t, r, http.MethodPost, "/v1/rpc/deleteQuotation", fmt.Sprintf(`{"id":%d}`, id), nil)
	if w.Body.String() != `{"data":false}` {
		t.Fatalf("second delete: %s", w.Body.String())
	}
	w = call(t, r, http.MethodGet, fmt.Sprintf("/v1/rpc/getQuotationById?id=%d", id), "", nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"data":null}` {
		t.Fatalf("get after delete: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_ValidationErrors(t *testing.T) {
	r := newTestEngine(t, nil)

	var e struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	}
	w := call(t, r, http.MethodPost, "/v1/rpc/createQuotation",
		`{"client_name":"  ","reference_number":"QT-1","title":"License","buy_price":100,"sale_price":150,"margin":50,"profit":45,"cost_basis":95,"markup_percentage":50}`, &e)
	if w.Code != http.StatusBadRequest || e.Field != "client_name" {
		t.Fatalf("expected client_name rejection, got %d %+v", w.Code, e)
	}

	w = call(t, r, http.MethodPost, "/v1/rpc/createQuotation",
		`{"client_name":"Acme","reference_number":"QT-1","title":"License","buy_price":100.12345,"sale_price":150,"margin":50,"profit":45,"cost_basis":95,"markup_percentage":50}`, &e)
	if w.Code != http.StatusBadRequest || e.Field != "buy_price" {
		t.Fatalf("expected buy_price precision rejection, got %d %+v", w.Code, e)
	}

	e.Field = ""
	w = call(t, r, http.MethodPost, "/v1/rpc/updateQuotation", `{"title":"x"}`, &e)
	if w.Code != http.StatusBadRequest || e.Field != "id" {
		t.Fatalf("expected missing id rejection, got %d %+v", w.Code, e)
	}

	e.Field = ""
	w = call(t, r, http.MethodGet, "/v1/rpc/getQuotationById?id=1.5", "", &e)
	if w.Code != http.StatusBadRequest || e.Field != "id" {
		t.Fatalf("expected non-integer id rejection, got %d %+v", w.Code, e)
	}
}

func TestRouter_NonPositiveIDsAreNotFound(t *testing.T) {
	r := newTestEngine(t, nil)

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodGet, "/v1/rpc/getQuotationById?id=0", "", `{"data":null}`},
		{http.MethodGet, "/v1/rpc/getSensitiveQuotationData?id=-2", "", `{"data":null}`},
		{http.MethodPost, "/v1/rpc/updateQuotation", `{"id":-3,"title":"x"}`, `{"data":null}`},
		{http.MethodPost, "/v1/rpc/deleteQuotation", `{"id":-1}`, `{"data":false}`},
		{http.MethodPost, "/v1/rpc/deleteQuotation", `{"id":0}`, `{"data":false}`},
	}
	for _, tc := range cases {
		w := call(t, r, tc.method, tc.path, tc.body, nil)
		if w.Code != http.StatusOK || w.Body.String() != tc.want {
			t.Fatalf("%s %s %s: expected 200 %s, got %d %s", tc.method, tc.path, tc.body, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestRouter_ExtremeMoneyExponentsRejectedQuickly(t *testing.T) {
	r := newTestEngine(t, nil)

	for _, v := range []string{"1e100000000", "1e-100000000"} {
		body := `{"client_name":"Acme","reference_number":"QT-1","title":"License","buy_price":` + v +
			`,"sale_price":150,"margin":50,"profit":45,"cost_basis":95,"markup_percentage":50}`
		var e struct {
			Field string `json:"field"`
		}
		start := time.Now()
		w := call(t, r, http.MethodPost, "/v1/rpc/createQuotation", body, &e)
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("buy_price %s took %v", v, elapsed)
		}
		if w.Code != http.StatusBadRequest || e.Field != "buy_price" {
			t.Fatalf("buy_price %s: expected 400 on buy_price, got %d %s", v, w.Code, w.Body.String())
		}

		e.Field = ""
		w = call(t, r, http.MethodPost, "/v1/rpc/updateQuotation", `{"id":1,"margin":`+v+`}`, &e)
		if w.Code != http.StatusBadRequest || e.Field != "margin" {
			t.Fatalf("margin %s: expected 400 on margin, got %d %s", v, w.Code, w.Body.String())
		}
	}
}

func TestRouter_Middlewares(t *testing.T) {
	t.Run("request id echoed", func(t *testing.T) {
		r := newTestEngine(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Header().Get("X-Request-ID") != "abc-123" {
			t.Fatalf("request id not echoed: %q", w.Header().Get("X-Request-ID"))
		}
	})

	t.Run("request id generated", func(t *testing.T) {
		r := newTestEngine(t, nil)
		w := call(t, r, http.MethodGet, "/v1/rpc/healthcheck", "", nil)
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected generated request id")
		}
		if !strings.Contains(w.Body.String(), `"status":"ok"`) {
			t.Fatalf("unexpected healthcheck body: %s", w.Body.String())
		}
	})

	t.Run("cors allow list", func(t *testing.T) {
		r := newTestEngine(t, []string{"http://app.local"})
		req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		req.Header.Set("Origin", "http://app.local")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Header().Get("Access-Control-Allow-Origin") != "http://app.local" {
			t.Fatalf("missing CORS header: %v", w.Header())
		}

		req = httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		req.Header.Set("Origin", "http://evil.local")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for disallowed origin, got %d", w.Code)
		}
	})

	t.Run("swagger served", func(t *testing.T) {
		r := newTestEngine(t, nil)
		w := call(t, r, http.MethodGet, "/swagger/doc.json", "", nil)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/rpc/createQuotation") {
			t.Fatalf("swagger doc not served: %d", w.Code)
		}
	})
}
