package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poruchai/poruchai/internal/domain/model"
)

// descriptionLimit caps the description forwarded to the gateway.
const descriptionLimit = 140

// GatewayError carries the failure the gateway reported for a request.
type GatewayError struct {
	Code    string
	Message string
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected request: %s (code %s)", e.Message, e.Code)
}

// InitRequest describes a payment to start.
type InitRequest struct {
	OrderID     int64
	Amount      int64 // minor currency units
	Description string
}

// Client exposes operations against the payment gateway.
type Client interface {
	Init(ctx context.Context, req InitRequest) (*model.PaymentInit, error)
	VerifyCallback(fields map[string]any) bool
}

// HTTPClient implements Client over the gateway's JSON API.
type HTTPClient struct {
	baseURL     *url.URL
	terminalKey string
	secret      string
	httpClient  *http.Client
	logger      *slog.Logger
}

type initResponse struct {
	Success    bool        `json:"Success"`
	ErrorCode  string      `json:"ErrorCode"`
	Message    string      `json:"Message"`
	Details    string      `json:"Details"`
	PaymentID  json.Number `json:"PaymentId"`
	PaymentURL string      `json:"PaymentURL"`
}

// NewHTTPClient creates a gateway client with a bounded request timeout.
func NewHTTPClient(baseURL, terminalKey, secret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:     parsed,
		terminalKey: terminalKey,
		secret:      secret,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Init starts a payment and returns the redirect URL. The order reference
// sent to the gateway carries a per-attempt random suffix so a repeated
// attempt for the same order is not rejected as a duplicate.
func (c *HTTPClient) Init(ctx context.Context, req InitRequest) (*model.PaymentInit, error) {
	fields := map[string]any{
		"TerminalKey": c.terminalKey,
		"Amount":      req.Amount,
		"OrderId":     BuildOrderReference(req.OrderID),
	}
	if desc := truncate(req.Description, descriptionLimit); desc != "" {
		fields["Description"] = desc
	}
	fields[TokenField] = Sign(fields, c.secret)

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "Init")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway init failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}

	var data initResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	if !data.Success {
		message := data.Message
		if data.Details != "" {
			message = data.Details
		}
		return nil, GatewayError{Code: data.ErrorCode, Message: message}
	}

	return &model.PaymentInit{
		PaymentID:   data.PaymentID.String(),
		RedirectURL: data.PaymentURL,
	}, nil
}

// VerifyCallback checks the inbound payload signature.
func (c *HTTPClient) VerifyCallback(fields map[string]any) bool {
	return VerifySignature(fields, c.secret)
}

// BuildOrderReference produces the per-attempt gateway order reference:
// the order ID plus a short random suffix.
func BuildOrderReference(orderID int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s", orderID, suffix)
}

// ResolveOrderID recovers the original order ID from a gateway order
// reference, tolerating references without a suffix.
func ResolveOrderID(reference string) (int64, error) {
	prefix := reference
	if idx := strings.LastIndex(reference, "-"); idx > 0 {
		prefix = reference[:idx]
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("unresolvable order reference %q", reference)
	}
	return id, nil
}

// MapStatus translates a gateway payment status into a lifecycle effect.
// Unknown statuses are intermediate and change nothing.
func MapStatus(status string) model.PaymentOutcome {
	switch strings.ToUpper(status) {
	case "CONFIRMED", "AUTHORIZED":
		return model.PaymentOutcomeSucceeded
	case "CANCELED", "REVERSED", "REJECTED", "REFUNDED":
		return model.PaymentOutcomeCanceled
	default:
		return model.PaymentOutcomeNone
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
