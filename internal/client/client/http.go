package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/cloudshare/internal/client/normalize"
	"github.com/dmitrijs2005/cloudshare/internal/common"
	"github.com/dmitrijs2005/cloudshare/internal/logging"
)

// HTTPClient talks JSON over HTTP to the backend.
type HTTPClient struct {
	baseURL       string
	uploadBaseURL string
	hc            *http.Client
	timeout       time.Duration
	rc            *resty.Client
	tokens        TokenSource
	log           logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient sets the underlying client. It is copied, never mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

// WithUploadBaseURL routes uploads to a dedicated host.
func WithUploadBaseURL(u string) Option {
	return func(c *HTTPClient) { c.uploadBaseURL = strings.TrimRight(u, "/") }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithTimeout bounds every request, uploads included.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  StaticToken(""),
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.uploadBaseURL == "" {
		c.uploadBaseURL = c.baseURL
	}

	hc := http.Client{}
	if c.hc != nil {
		hc = *c.hc
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.rc = resty.NewWithClient(&hc).
		SetLogger(restyLogger{log: c.log}).
		SetHeader("Accept", "application/json")
	return c, nil
}

func (c *HTTPClient) Get(ctx context.Context, path string) (normalize.Node, error) {
	return c.call(ctx, http.MethodGet, path, nil)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any) (normalize.Node, error) {
	return c.call(ctx, http.MethodPost, path, body)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body any) (normalize.Node, error) {
	return c.call(ctx, http.MethodPatch, path, body)
}

func (c *HTTPClient) Delete(ctx context.Context, path string) (normalize.Node, error) {
	return c.call(ctx, http.MethodDelete, path, nil)
}

// Upload sends src as a single multipart part named field. onProgress, if
// set, receives strictly increasing percentages of the file read so far; 100
// is reported only once the server accepted the upload.
func (c *HTTPClient) Upload(ctx context.Context, path, field string, src Uploadable, onProgress func(int)) (normalize.Node, error) {
	in, err := src.Open()
	if err != nil {
		return normalize.Node{}, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer in.Close()

	contentType := src.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var r io.Reader = in
	var pr *progressReader
	if onProgress != nil {
		pr = &progressReader{r: in, total: src.Size(), fn: onProgress}
		r = pr
	}

	req := c.request(ctx).SetMultipartField(field, src.Name(), contentType, r)
	env, err := c.execute(req, http.MethodPost, c.uploadBaseURL, path)
	if err != nil {
		return env, err
	}
	if pr != nil {
		pr.finish()
	}
	return env, nil
}

func (c *HTTPClient) call(ctx context.Context, method, path string, body any) (normalize.Node, error) {
	req := c.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return c.execute(req, method, c.baseURL, path)
}

// request starts a request carrying a fresh request id and the current
// bearer token. A failing token lookup sends the request anonymously.
func (c *HTTPClient) request(ctx context.Context) *resty.Request {
	req := c.rc.R().
		SetContext(ctx).
		SetHeader(common.RequestIDHeaderName, uuid.NewString())

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "token lookup failed", "err", err)
	} else if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *HTTPClient) execute(req *resty.Request, method, base, path string) (normalize.Node, error) {
	ctx := req.Context()
	log := c.log.With("method", method, "path", path, "request_id", req.Header.Get(common.RequestIDHeaderName))

	resp, err := req.Execute(method, base+path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return normalize.Node{}, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		log.Warn(ctx, "request failed", "err", err)
		return normalize.Node{}, fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode(), "elapsed", resp.Time())

	raw := resp.Body()
	env, perr := normalize.Parse(raw)
	if perr != nil {
		env = normalize.Of(strings.TrimSpace(string(raw)))
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return normalize.Node{}, &APIError{
			Method:   method,
			Path:     path,
			Status:   resp.StatusCode(),
			Message:  normalize.Message(env),
			Envelope: env,
			kind:     mapStatus(resp.StatusCode()),
		}
	}
	return env, nil
}

// progressReader reports read progress of the file part. It stops at 99
// until finish is called.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		p.report(min(int(p.read*100/p.total), 99))
	}
	return n, err
}

func (p *progressReader) finish() { p.report(100) }

func (p *progressReader) report(pct int) {
	if pct > p.last {
		p.last = pct
		p.fn(pct)
	}
}

// restyLogger routes resty's own diagnostics into the client logger.
type restyLogger struct {
	log logging.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}
