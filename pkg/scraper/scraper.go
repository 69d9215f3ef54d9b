package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("priceguard/scraper")

const (
	// DefaultSelector matches the schema.org price metadata most storefronts emit.
	DefaultSelector  = `meta[itemprop="price"]`
	DefaultAttribute = "content"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// FetchError reports a request that failed or returned a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Scraper. Zero values fall back to the defaults above.
type Options struct {
	Timeout          time.Duration
	UserAgent        string
	Selector         string
	Attribute        string
	CloudflareBypass bool
}

// Scraper fetches product pages and reads the price marker.
type Scraper struct {
	http      *resty.Client
	selector  string
	attribute string
}

// New creates a scraper with a browser-like HTTP client.
func New(opts Options) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.Attribute == "" {
		opts.Attribute = DefaultAttribute
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("User-Agent", opts.UserAgent)

	return &Scraper{
		http:      client,
		selector:  opts.Selector,
		attribute: opts.Attribute,
	}
}

// FetchPrice downloads url and extracts its price. found is false when the
// page has no usable marker; err is set for network, status or parse failures.
func (s *Scraper) FetchPrice(ctx context.Context, url string) (price float64, found bool, err error) {
	ctx, span := tracer.Start(ctx, "FetchPrice")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := s.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, false, &FetchError{URL: url, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))

	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "non-2xx response")
		return 0, false, &FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	price, found, err = ExtractPrice(bytes.NewReader(res.Body()), s.selector, s.attribute)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "price marker unparsable")
		return 0, false, err
	}
	if found {
		span.SetAttributes(attribute.Float64("price", price))
	}
	return price, found, nil
}

// ExtractPrice reads the first element matching selector and parses its
// attribute as a number. A missing marker is reported as found=false with a
// nil error.
func ExtractPrice(r io.Reader, selector, attr string) (float64, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, false, fmt.Errorf("parse html: %w", err)
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return 0, false, nil
	}

	raw, ok := sel.Attr(attr)
	if !ok {
		return 0, false, fmt.Errorf("price marker %s has no %q attribute", selector, attr)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse price %q: %w", raw, err)
	}
	return price, true, nil
}
