// Package catalog talks to the remote product catalog API.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
	"github.com/utafrali/storefront/pkg/validator"
)

const upstream = "catalog"

// HTTPDoer executes HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches products from the catalog API and exchanges credentials for
// session tokens. Every call is a fresh round trip; nothing is cached.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer("github.com/utafrali/storefront/internal/catalog"),
	}
}

// remoteProduct is the wire shape of a catalog product. The catalog has used
// both title/image and name/imageUrl over time.
type remoteProduct struct {
	ID          domain.ProductID `json:"id" validate:"required"`
	Title       string           `json:"title"`
	Name        string           `json:"name"`
	Price       float64          `json:"price" validate:"gte=0"`
	Image       string           `json:"image"`
	ImageURL    string           `json:"imageUrl"`
	Description string           `json:"description"`
}

func (p remoteProduct) toDomain() domain.Product {
	name := p.Title
	if name == "" {
		name = p.Name
	}
	image := p.Image
	if image == "" {
		image = p.ImageURL
	}
	return domain.Product{
		ID:          p.ID,
		Name:        name,
		Price:       p.Price,
		ImageURL:    image,
		Description: p.Description,
	}
}

// FetchCatalog returns the full product list in catalog order. Entries that
// fail validation are skipped.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.FetchCatalog")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		err = upstreamError(err)
		recordError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		err := httpclient.ParseResponseError(resp, upstream)
		recordError(span, err)
		return nil, err
	}

	var remote []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		err = fmt.Errorf("decode catalog response: %w", err)
		recordError(span, err)
		return nil, err
	}

	products := make([]domain.Product, 0, len(remote))
	for i, rp := range remote {
		if err := validator.Validate(rp); err != nil {
			c.logger.WarnContext(ctx, "skipping invalid catalog product",
				slog.Int("position", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, rp.toDomain())
	}

	span.SetAttributes(
		attribute.Int("catalog.products", len(products)),
		attribute.Int("catalog.skipped", len(remote)-len(products)),
	)

	c.logger.DebugContext(ctx, "catalog fetched", slog.Int("products", len(products)))

	return products, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Login")
	defer span.End()

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		err = upstreamError(err)
		recordError(span, err)
		return "", err
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		parsed := httpclient.ParseResponseError(resp, upstream)
		recordError(span, parsed)
		return "", apperrors.Unauthorized("login rejected: " + parsed.Error())
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		err = fmt.Errorf("decode login response: %w", err)
		recordError(span, err)
		return "", err
	}
	if lr.Token == "" {
		return "", apperrors.Unauthorized("login response carried no token")
	}

	return lr.Token, nil
}

func upstreamError(err error) error {
	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return apperrors.Unavailable("catalog circuit open")
	}
	return fmt.Errorf("call catalog: %w", err)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
