package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

// RawDocument is the undecoded body of a fetched URL plus its transport outcome.
// When OK is false Body is always empty.
type RawDocument struct {
	URL        string
	Body       []byte
	StatusCode int
	OK         bool
}

// Empty reports whether there are no bytes to decode.
func (d RawDocument) Empty() bool {
	return len(d.Body) == 0
}

// Fetcher retrieves a single document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (RawDocument, error)
}

// Error describes a failed retrieval. It unwraps to internalerr.ErrFetchFailed.
type Error struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch.%s %s: HTTP %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("fetch.%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{internalerr.ErrFetchFailed}
	}
	return []error{internalerr.ErrFetchFailed, e.Err}
}

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "wordchart/1.0"
)

// Options configures an HTTPFetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// Option sets one fetcher option.
type Option func(*Options)

// WithTimeout bounds each request, body included.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithMaxBytes caps the accepted body size; 0 disables the cap.
func WithMaxBytes(n int64) Option {
	return func(o *Options) { o.MaxBytes = n }
}

// HTTPFetcher fetches documents over HTTP(S).
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a resty-backed fetcher. The body size cap is enforced
// while reading, so an oversized response is cut off rather than buffered.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	o := Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := resty.New().
		SetTimeout(o.Timeout).
		SetHeader("User-Agent", o.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if o.MaxBytes > 0 {
		client.SetResponseBodyLimit(int(o.MaxBytes))
	}

	return &HTTPFetcher{client: client}
}

// Fetch performs a GET. Non-2xx responses return a RawDocument with OK=false and
// no body, together with an *Error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (RawDocument, error) {
	doc := RawDocument{URL: url}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		if resp != nil {
			doc.StatusCode = resp.StatusCode()
		}
		return doc, &Error{Op: "Read", URL: url, Err: err}
	}
	if err != nil {
		return doc, &Error{Op: "Get", URL: url, Err: err}
	}

	doc.StatusCode = resp.StatusCode()
	if !resp.IsSuccess() {
		return doc, &Error{Op: "Get", URL: url, Status: resp.StatusCode()}
	}

	doc.Body = resp.Body()
	doc.OK = true
	return doc, nil
}
