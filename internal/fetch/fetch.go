// Package fetch retrieves listing pages, optionally through a CORS-style
// relay proxy, and returns their text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/utils"
)

const (
	// DefaultProxyURL relays the request and returns the raw upstream body.
	DefaultProxyURL = "https://api.allorigins.win/raw"

	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 5 << 20
	DefaultUserAgent = "propintel/1.0 (+listing extraction)"
)

// InvalidURLMessage is shown when the submitted address cannot be fetched.
const InvalidURLMessage = "Invalid URL format. Please enter a valid web address (e.g., https://example.com)."

type Config struct {
	ProxyURL    string // relay endpoint taking a url= query; empty fetches directly
	Timeout     time.Duration
	MaxBytes    int64 // response body cap
	UserAgent   string
	ConvertHTML bool // convert HTML bodies to Markdown before extraction
}

// Fetcher performs one GET per call. No retries.
type Fetcher struct {
	cfg    Config
	client *http.Client
	md     *converter.Converter
}

// New creates a fetcher. A nil client gets one with cfg.Timeout.
func New(cfg Config, client *http.Client) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	f := &Fetcher{cfg: cfg, client: client}
	if cfg.ConvertHTML {
		f.md = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	}
	return f
}

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.ValidationError{Message: InvalidURLMessage}
	}
	return u, nil
}

// Fetch returns the page text for rawURL.
//
// Errors: *domain.ValidationError for a malformed URL (no request is made),
// *domain.FetchError for transport failures and non-2xx answers,
// domain.ErrEmptyContent when the body is blank.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	reqURL, err := f.requestURL(target)
	if err != nil {
		return "", &domain.FetchError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &domain.FetchError{Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{Err: err}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes))
	if err != nil {
		return "", &domain.FetchError{Err: fmt.Errorf("read body: %w", err)}
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyContent
	}

	if f.md != nil && isHTML(resp.Header.Get("Content-Type"), text) {
		md, err := f.md.ConvertString(text, converter.WithDomain(target.Scheme+"://"+target.Host))
		if err == nil && strings.TrimSpace(md) != "" {
			text = md
		}
	}

	return text, nil
}

func (f *Fetcher) requestURL(target *url.URL) (string, error) {
	if f.cfg.ProxyURL == "" {
		return target.String(), nil
	}
	proxy, err := url.Parse(f.cfg.ProxyURL)
	if err != nil {
		return "", fmt.Errorf("invalid proxy url: %w", err)
	}
	q := proxy.Query()
	q.Set("url", target.String())
	proxy.RawQuery = q.Encode()
	return proxy.String(), nil
}

func isHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}
