package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

type Client struct {
	endpoint    string
	storeURL    string
	locale      string
	accessToken string
	httpClient  *http.Client
	gql         *graphql.Client
	logger      *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint (tests point it at httptest servers)
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithStoreURL overrides the storefront origin used for Ajax product requests
func WithStoreURL(storeURL string) Option {
	return func(c *Client) { c.storeURL = strings.TrimSuffix(storeURL, "/") }
}

// WithHTTPClient replaces the HTTP client used for every request
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new Storefront GraphQL client
func NewClient(cfg config.StorefrontConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	shopDomain := config.NormalizeDomain(cfg.ShopDomain)

	locale := cfg.Locale
	if locale == "" {
		locale = "en-US"
	}
	storeURL := strings.TrimSuffix(cfg.StoreURL, "/")
	if storeURL == "" {
		storeURL = "https://" + shopDomain
	}

	c := &Client{
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", shopDomain, cfg.APIVersion),
		storeURL:    storeURL,
		locale:      locale,
		accessToken: cfg.AccessToken,
		// no client-level timeout: the caller's context bounds each request
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.gql = graphql.NewClient(c.endpoint, graphql.WithHTTPClient(graphQLHTTPClient(c.httpClient)))
	c.gql.Log = func(s string) {
		c.logger.Debug("storefront graphql", zap.String("message", s))
	}
	return c
}

// Endpoint returns the GraphQL endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Locale returns the locale used for Ajax requests
func (c *Client) Locale() string {
	return c.locale
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query/mutation. op names the operation in errors and logs.
func (c *Client) Execute(ctx context.Context, op, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	jsonData, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, c.fail(op, &errors.ErrMalformed{Op: op, Err: fmt.Errorf("marshal request: %w", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(op, &errors.ErrStatus{Op: op, StatusCode: resp.StatusCode, Body: string(body)})
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, c.fail(op, &errors.ErrMalformed{Op: op, Err: err})
	}

	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, e := range graphQLResp.Errors {
			messages[i] = e.Message
		}
		return nil, c.fail(op, &errors.ErrGraphQL{Op: op, Messages: messages})
	}

	return &graphQLResp, nil
}

// run executes op and decodes its data into out
func (c *Client) run(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	resp, err := c.Execute(ctx, op, query, variables)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return c.fail(op, &errors.ErrMalformed{Op: op, Err: err})
	}
	return nil
}

// fail logs a failed operation once and hands the error back
func (c *Client) fail(op string, err error) error {
	c.logger.Error("Storefront API request failed",
		zap.String("operation", op),
		zap.String("kind", string(errors.KindOf(err))),
		zap.Error(err),
	)
	return err
}
