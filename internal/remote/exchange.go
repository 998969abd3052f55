package remote

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout  = 120 * time.Second
	maxResponseSize = 8 << 20
)

func newFastClient() *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "study-sprint",
		MaxResponseBodySize: maxResponseSize,
	}
}

type exchangeResult struct {
	status int
	body   []byte
	err    error
}

// postJSON sends body to url and returns the status and a copy of the reply.
// It gives up when ctx is done even if ctx has no deadline; the abandoned
// request finishes in the background and releases its own buffers.
func postJSON(ctx context.Context, client *fasthttp.Client, url string, header map[string]string, body []byte, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(timeout)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	done := make(chan exchangeResult, 1)
	go func() {
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		var res exchangeResult
		if res.err = client.DoDeadline(req, resp, deadline); res.err == nil {
			res.status = resp.StatusCode()
			res.body = append([]byte(nil), resp.Body()...)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res.status, res.body, res.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}
