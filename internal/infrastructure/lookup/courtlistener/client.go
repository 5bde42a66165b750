// Package courtlistener talks to the CourtListener citation-lookup API.
package courtlistener

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/core/ports"
	"github.com/kirillkom/citecheck/internal/infrastructure/resilience"
)

const (
	DefaultEndpoint = "https://www.courtlistener.com/api/rest/v4/citation-lookup/"
	TokenEnvVar     = "COURTLISTENER_API_TOKEN"
	MaxTextLength   = 64000

	ConnectTimeout = 5 * time.Second
	ReadTimeout    = 30 * time.Second

	lookupOperation = "courtlistener.lookup"
)

type Options struct {
	Endpoint string
	// Transport replaces the default dialer-backed transport, mostly in tests.
	Transport http.RoundTripper
	Guard     *resilience.Guard
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	guard      *resilience.Guard
}

// NewClient takes the token from the argument or, if empty, from
// COURTLISTENER_API_TOKEN. A missing token is a configuration error.
func NewClient(token string, opts Options) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(TokenEnvVar))
	}
	if token == "" {
		return nil, domain.NewError(domain.ErrConfig, "API token required. Set "+TokenEnvVar+" environment variable.")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	transport := opts.Transport
	if transport == nil {
		transport = newTransport()
	}

	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   ConnectTimeout + ReadTimeout,
		},
		guard: opts.Guard,
	}, nil
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   ConnectTimeout,
		ResponseHeaderTimeout: ReadTimeout,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          2,
		IdleConnTimeout:       90 * time.Second,
	}
}

// Lookup sends text in a single request. Input limits are enforced before
// any network I/O and failures are never retried.
func (c *Client) Lookup(ctx context.Context, text string) ([]domain.RawLookupResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewError(domain.ErrValidation, "Text cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, domain.NewError(domain.ErrValidation, fmt.Sprintf("Text exceeds maximum length of %d characters", MaxTextLength))
	}

	var results []domain.RawLookupResult
	call := func(callCtx context.Context) error {
		out, err := c.postText(callCtx, text)
		if err != nil {
			return err
		}
		results = out
		return nil
	}

	var err error
	if c.guard != nil {
		err = c.guard.Execute(ctx, lookupOperation, call, countsAgainstBreaker)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, mapLookupError(err)
	}
	return results, nil
}

// Close releases pooled connections held by the session.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Provider opens one Client per check. The guard, when set, is shared by all
// sessions of the process.
type Provider struct {
	token string
	opts  Options
}

func NewProvider(token string, opts Options) *Provider {
	return &Provider{token: token, opts: opts}
}

func (p *Provider) Open(context.Context) (ports.CitationLookup, error) {
	client, err := NewClient(p.token, p.opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}
