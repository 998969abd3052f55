package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/study-sprint/planner/internal/models"
	"github.com/valyala/fasthttp"
)

// CallableClient speaks the callable-function protocol: the request is
// wrapped as {"data": ...} and the reply is {"result": ...} or
// {"error": {"status": ..., "message": ...}}.
type CallableClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewCallableClient returns a client for the functions under baseURL. A zero
// timeout means the default of two minutes; a context deadline overrides it.
func NewCallableClient(baseURL string, timeout time.Duration) *CallableClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CallableClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		client:  newFastClient(),
	}
}

type callableRequest struct {
	Data interface{} `json:"data"`
}

type callableReply struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CallableClient) GenerateQuiz(ctx context.Context, req QuizRequest) ([]models.Question, error) {
	var resp QuizResponse
	if err := c.call(ctx, FuncGenerateQuiz, req, &resp); err != nil {
		return nil, err
	}
	return checkQuiz(resp)
}

func (c *CallableClient) AnalyzeSyllabus(ctx context.Context, req AnalyzeRequest) ([]models.Topic, error) {
	if err := validateAnalyze(req); err != nil {
		return nil, err
	}
	var resp AnalyzeResponse
	if err := c.call(ctx, FuncAnalyzeSyllabus, req, &resp); err != nil {
		return nil, err
	}
	return checkPlan(resp)
}

func (c *CallableClient) call(ctx context.Context, name string, data, out interface{}) error {
	body, err := json.Marshal(callableRequest{Data: data})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", name, err)
	}

	code, raw, err := postJSON(ctx, c.client, c.baseURL+"/"+name, nil, body, c.timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var reply callableReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		if code != fasthttp.StatusOK {
			return &StatusError{Function: name, Code: code, Body: snippet(raw)}
		}
		return fmt.Errorf("%s: decode response: %w", name, err)
	}
	if reply.Error != nil {
		return &CallError{Function: name, Status: reply.Error.Status, Message: reply.Error.Message}
	}
	if code != fasthttp.StatusOK {
		return &StatusError{Function: name, Code: code, Body: snippet(raw)}
	}
	if len(reply.Result) == 0 || string(reply.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", name, err)
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
