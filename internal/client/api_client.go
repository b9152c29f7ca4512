package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the quotation API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api %d %s: %s (field %s)", e.StatusCode, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("api %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type PublicQuotation struct {
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

type SensitiveQuotation struct {
	ID                   int64           `json:"id"`
	BuyPrice             decimal.Decimal `json:"buy_price"`
	SalePrice            decimal.Decimal `json:"sale_price"`
	Margin               decimal.Decimal `json:"margin"`
	Profit               decimal.Decimal `json:"profit"`
	CostBasis            decimal.Decimal `json:"cost_basis"`
	MarkupPercentage     decimal.Decimal `json:"markup_percentage"`
	InternalNotes        *string         `json:"internal_notes"`
	RiskLevel            string          `json:"risk_level"`
	ConfidentialityLevel string          `json:"confidentiality_level"`
}

// Quotation is the full record returned by create, get and update.
type Quotation struct {
	PublicQuotation
	SensitiveQuotation
}

// UnmarshalJSON fills both embedded halves; they share the id key.
func (q *Quotation) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &q.PublicQuotation); err != nil {
		return err
	}
	return json.Unmarshal(b, &q.SensitiveQuotation)
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Client calls the RPC endpoints under /v1/rpc.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) ListPublicQuotations(ctx context.Context) ([]PublicQuotation, error) {
	var out []PublicQuotation
	if err := c.get(ctx, "listPublicQuotations", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []PublicQuotation{}
	}
	return out, nil
}

// GetQuotationByID returns nil without error when the id does not exist.
func (c *Client) GetQuotationByID(ctx context.Context, id int64) (*Quotation, error) {
	var out *Quotation
	err := c.get(ctx, "getQuotationById", idQuery(id), &out)
	return out, err
}

// GetSensitiveQuotationData returns nil without error when the id does not exist.
func (c *Client) GetSensitiveQuotationData(ctx context.Context, id int64) (*SensitiveQuotation, error) {
	var out *SensitiveQuotation
	err := c.get(ctx, "getSensitiveQuotationData", idQuery(id), &out)
	return out, err
}

func (c *Client) CreateQuotation(ctx context.Context, in CreateQuotationInput) (Quotation, error) {
	var out Quotation
	err := c.post(ctx, "createQuotation", in, &out)
	return out, err
}

// UpdateQuotation sends only the fields set in the input.
func (c *Client) UpdateQuotation(ctx context.Context, id int64, in UpdateQuotationInput) (*Quotation, error) {
	body := struct {
		ID int64 `json:"id"`
		UpdateQuotationInput
	}{ID: id, UpdateQuotationInput: in}

	var out *Quotation
	err := c.post(ctx, "updateQuotation", body, &out)
	return out, err
}

func (c *Client) DeleteQuotation(ctx context.Context, id int64) (bool, error) {
	var out bool
	err := c.post(ctx, "deleteQuotation", map[string]int64{"id": id}, &out)
	return out, err
}

func (c *Client) Healthcheck(ctx context.Context) (Health, error) {
	var out Health
	err := c.get(ctx, "healthcheck", nil, &out)
	return out, err
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{strconv.FormatInt(id, 10)}}
}

func (c *Client) get(ctx context.Context, op string, q url.Values, out any) error {
	u := c.baseURL + "/v1/rpc/" + op
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, op string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/rpc/"+op, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Code = "HTTP_ERROR"
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	if len(envelope.Data) == 0 {
		return errors.New("response without data")
	}
	return json.Unmarshal(envelope.Data, out)
}
