// Package paiement implements the client of the dossier-fee payment provider.
package paiement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/circuitbreaker"
	"github.com/alem-hub/admission-workflow/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the payment provider client.
type ClientConfig struct {
	// BaseURL is the provider API base URL.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds one HTTP request.
	Timeout time.Duration

	// RequestsPerSecond throttles calls to the provider (<= 0 disables).
	RequestsPerSecond float64
	Burst             int

	Logger *slog.Logger

	// Retrier and Breaker default to the payment presets.
	Retrier *retry.Retrier
	Breaker *circuitbreaker.CircuitBreaker
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client implements proposition.PaiementService over HTTP.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// statutPaiementDTO is the provider's answer for one proposition.
type statutPaiementDTO struct {
	UUIDProposition string     `json:"uuid_proposition"`
	Statut          string     `json:"statut"`
	PayeLe          *time.Time `json:"paye_le,omitempty"`
}

const statutPaye = "PAYE"

// NewClient creates a new payment provider client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	logger := config.Logger.With("component", "paiement_client")

	if config.Retrier == nil {
		config.Retrier = retry.PaiementRetrier(
			retry.WithRetryIf(retry.IsRetryable),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				logger.Warn("retrying payment request", "attempt", attempt, "delay", delay, "error", err)
			}),
		)
	}
	if config.Breaker == nil {
		config.Breaker = circuitbreaker.PaiementBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}, circuitbreaker.WithIsFailure(panneFournisseur))
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
		retrier:    config.Retrier,
		breaker:    config.Breaker,
		limiter:    rate.NewLimiter(limit, config.Burst),
	}
}

// PaiementRealise reports whether the dossier fee of a proposition is paid.
// An unknown proposition on the provider side is an unpaid one.
func (c *Client) PaiementRealise(ctx context.Context, uuidProposition string) (bool, error) {
	var dto statutPaiementDTO
	var trouve bool

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			var err error
			trouve, err = c.doRequest(ctx, "/paiements/"+url.PathEscape(uuidProposition), &dto)
			return err
		})
	})
	if err != nil {
		return false, c.mapError(err)
	}
	if !trouve {
		return false, nil
	}
	return dto.Statut == statutPaye, nil
}

// doRequest performs one GET. It returns false without error on 404.
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, retry.Permanent(fmt.Errorf("%w: %v", errDebit, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return false, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return false, retry.Retryable(fmt.Errorf("payment provider: status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return false, retry.Permanent(fmt.Errorf("%w: status %d", errRejete, resp.StatusCode))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return false, retry.Permanent(fmt.Errorf("%w: %v", errReponse, err))
	}
	return true, nil
}

var (
	errReponse = errors.New("unmarshal response")
	errRejete  = errors.New("payment provider rejected the request")
	errDebit   = errors.New("rate limit")
)

// panneFournisseur reports whether err counts against the breaker. Requests
// the provider refused and local throttling say nothing about its health.
func panneFournisseur(err error) bool {
	return !errors.Is(err, errRejete) && !errors.Is(err, errDebit)
}

// mapError logs the transport failure and returns the matching shared error.
func (c *Client) mapError(err error) error {
	var netErr net.Error
	var mapped error
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		mapped = shared.ErrPaiementIndisponible
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		mapped = shared.ErrPaiementTimeout
	case errors.Is(err, errReponse):
		mapped = shared.ErrPaiementReponse
	default:
		mapped = shared.ErrPaiementIndisponible
	}
	c.logger.Error("payment request failed", "error", err, "mapped", mapped)
	return mapped
}

// IsHealthy reports whether the breaker lets requests through.
func (c *Client) IsHealthy() bool {
	return !c.breaker.IsOpen()
}
