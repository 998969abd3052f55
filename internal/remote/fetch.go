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

// FetchClient posts the raw request JSON to {baseURL}/{function} and reads
// the raw response JSON. Any non-2xx status is an error. The Origin header
// is sent so a service that handles CORS by hand can answer it.
type FetchClient struct {
	baseURL string
	origin  string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewFetchClient(baseURL, origin string) *FetchClient {
	return &FetchClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		origin:  origin,
		timeout: defaultTimeout,
		client:  newFastClient(),
	}
}

func (c *FetchClient) GenerateQuiz(ctx context.Context, req QuizRequest) ([]models.Question, error) {
	var resp QuizResponse
	if err := c.post(ctx, FuncGenerateQuiz, req, &resp); err != nil {
		return nil, err
	}
	return checkQuiz(resp)
}

func (c *FetchClient) AnalyzeSyllabus(ctx context.Context, req AnalyzeRequest) ([]models.Topic, error) {
	if err := validateAnalyze(req); err != nil {
		return nil, err
	}
	var resp AnalyzeResponse
	if err := c.post(ctx, FuncAnalyzeSyllabus, req, &resp); err != nil {
		return nil, err
	}
	return checkPlan(resp)
}

func (c *FetchClient) post(ctx context.Context, name string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", name, err)
	}

	var header map[string]string
	if c.origin != "" {
		header = map[string]string{"Origin": c.origin}
	}
	code, raw, err := postJSON(ctx, c.client, c.baseURL+"/"+name, header, body, c.timeout)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if code < 200 || code > 299 {
		return &StatusError{Function: name, Code: code, Body: snippet(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", name, err)
	}
	return nil
}
