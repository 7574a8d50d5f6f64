package host

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// RequestOption describes one outbound call in the platform's callback
// style. Exactly one of Success or Fail is invoked.
type RequestOption struct {
	URL      string
	Method   string
	Header   map[string]string
	Data     any
	Timeout  time.Duration
	DataType string

	Success func(*RequestResult)
	Fail    func(error)
}

// RequestResult is the raw response handed to Success.
type RequestResult struct {
	StatusCode int               `json:"statusCode"`
	Header     map[string]string `json:"header"`
	Data       []byte            `json:"-"`
	Cookies    []string          `json:"cookies,omitempty"`
}

// OK reports whether the status is in [200, 300).
func (r *RequestResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestTask is the handle of an in-flight call.
type RequestTask interface {
	Abort()
}

// Network is the callback-style request primitive.
type Network interface {
	Request(opt RequestOption) RequestTask
}

// RestyNetwork implements Network over go-resty. Calls run on their own
// goroutine and never retry.
type RestyNetwork struct {
	client *resty.Client
	logger *zap.Logger
}

// NewRestyNetwork creates a network adapter with a pooled transport.
func NewRestyNetwork(logger *zap.Logger) *RestyNetwork {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Only the pooled transport is used; retries stay disabled.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	client := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", "miniapp-shell/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	return &RestyNetwork{client: client, logger: logger}
}

// Client exposes the underlying resty client.
func (n *RestyNetwork) Client() *resty.Client {
	return n.client
}

type restyTask struct {
	cancel context.CancelFunc
}

func (t *restyTask) Abort() { t.cancel() }

// Request implements Network.
func (n *RestyNetwork) Request(opt RequestOption) RequestTask {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if opt.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), opt.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	go func() {
		defer cancel()

		resp, err := n.execute(ctx, opt)
		if err != nil {
			n.logger.Debug("request failed", zap.String("url", opt.URL), zap.Error(err))
			if opt.Fail != nil {
				opt.Fail(err)
			}
			return
		}

		if opt.Success != nil {
			opt.Success(toResult(resp))
		}
	}()

	return &restyTask{cancel: cancel}
}

func (n *RestyNetwork) execute(ctx context.Context, opt RequestOption) (*resty.Response, error) {
	method := strings.ToUpper(opt.Method)
	if method == "" {
		method = http.MethodGet
	}

	req := n.client.R().SetContext(ctx).SetHeaders(opt.Header)

	if opt.Data != nil {
		// GET data travels as the query string
		if method == http.MethodGet {
			if params, ok := queryParams(opt.Data); ok {
				req.SetQueryParams(params)
			} else {
				return nil, fmt.Errorf("request data for GET must be a flat object, got %T", opt.Data)
			}
		} else {
			req.SetBody(opt.Data)
		}
	}

	return req.Execute(method, opt.URL)
}

func queryParams(data any) (map[string]string, bool) {
	switch v := data.(type) {
	case map[string]string:
		return v, true
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = fmt.Sprint(val)
		}
		return out, true
	default:
		return nil, false
	}
}

func toResult(resp *resty.Response) *RequestResult {
	header := make(map[string]string, len(resp.Header()))
	for k, v := range resp.Header() {
		if len(v) > 0 {
			header[k] = v[0]
		}
	}

	var cookies []string
	for _, c := range resp.Cookies() {
		cookies = append(cookies, c.String())
	}

	return &RequestResult{
		StatusCode: resp.StatusCode(),
		Header:     header,
		Data:       resp.Body(),
		Cookies:    cookies,
	}
}
