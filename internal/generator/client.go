package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/study-sprint/planner/internal/models"
)

// LLMClient is the interface all generator backends satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Backend selects the LLM implementation.
type Backend string

const (
	BackendAPI  Backend = "api"
	BackendCLI  Backend = "cli"
	BackendMock Backend = "mock"
)

type Options struct {
	Backend Backend
	Model   string
	APIKey  string
	CLIPath string
	// Subject is used when no syllabus text can be extracted.
	Subject string
	// QuestionCount is the quiz length requested from the model.
	QuestionCount int
}

// Generator wraps an LLMClient and turns its replies into quizzes and plans.
type Generator struct {
	llm      LLMClient
	model    string
	subject  string
	count    int
	readText TextSource
}

// TextSource returns the plain text of a stored syllabus.
type TextSource func(ctx context.Context, filePath string) (string, error)

func NewGenerator(opts Options, src TextSource) *Generator {
	var llm LLMClient
	model := string(BackendMock)

	switch opts.Backend {
	case BackendCLI:
		cliPath := opts.CLIPath
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI")
	case BackendAPI:
		model = opts.Model
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(opts.APIKey, model)
		log.Println("Generator using Anthropic API:", model)
	default:
		llm = NewMockClient()
		log.Println("Generator using mock data")
	}

	return NewWithClient(llm, model, opts, src)
}

// NewWithClient builds a Generator around an existing client.
func NewWithClient(llm LLMClient, model string, opts Options, src TextSource) *Generator {
	subject := opts.Subject
	if subject == "" {
		subject = "Engineering Calculus"
	}
	count := opts.QuestionCount
	if count <= 0 {
		count = 5
	}
	return &Generator{llm: llm, model: model, subject: subject, count: count, readText: src}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuiz asks the model for a multiple-choice quiz about the syllabus at
// filePath. A nil path falls back to the default subject.
func (g *Generator) GenerateQuiz(ctx context.Context, filePath *string) ([]models.Question, error) {
	syllabus := g.syllabusText(ctx, filePath)

	resp, err := g.llm.Generate(ctx, QuizSystemPrompt(), BuildQuizUserPrompt(g.subject, syllabus, g.count))
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	questions, err := ParseQuiz(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	return questions, nil
}

// GeneratePlan asks the model for a study plan spanning days.
func (g *Generator) GeneratePlan(ctx context.Context, filePath string, days int) ([]models.Topic, error) {
	var path *string
	if filePath != "" {
		path = &filePath
	}
	syllabus := g.syllabusText(ctx, path)

	resp, err := g.llm.Generate(ctx, PlanSystemPrompt(), BuildPlanUserPrompt(g.subject, syllabus, days))
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	topics, err := ParsePlan(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	return topics, nil
}

func (g *Generator) syllabusText(ctx context.Context, filePath *string) string {
	if filePath == nil || g.readText == nil {
		return ""
	}
	text, err := g.readText(ctx, *filePath)
	if err != nil {
		log.Printf("WARNING: could not read syllabus %s, using subject %q: %v", *filePath, g.subject, err)
		return ""
	}
	return strings.TrimSpace(text)
}

// ── APIClient (Anthropic SDK) ──────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(apiKey, model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", wait, attempt+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient (local development) ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	content := buildMockQuizJSON()
	if strings.Contains(systemPrompt, "study plan") {
		content = buildMockPlanJSON()
	}
	return &LLMResponse{Content: content}, nil
}

func buildMockQuizJSON() string {
	topics := []string{"limits", "derivatives", "integrals", "series", "differential equations"}

	var b strings.Builder
	b.WriteString(`{"questions":[`)
	for i, topic := range topics {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b,
			`{"category":"%s","question":"[Mock] Which statement about %s is correct?","options":["[Mock] %s option A","[Mock] %s option B","[Mock] %s option C","[Mock] %s option D"],"correct":%d}`,
			topic, topic, topic, topic, topic, topic, i%4)
	}
	b.WriteString("]}")
	return b.String()
}

func buildMockPlanJSON() string {
	return "```json\n" + `[
  {"name":"[Mock] Limits and Continuity","priority":"High","difficulty":"Medium","hours":4},
  {"name":"[Mock] Derivatives","priority":"High","difficulty":"Hard","hours":6},
  {"name":"[Mock] Applications of Derivatives","priority":"Medium","difficulty":"Medium","hours":3},
  {"name":"[Mock] Integrals","priority":"High","difficulty":"Hard","hours":6},
  {"name":"[Mock] Sequences and Series","priority":"Low","difficulty":"Easy","hours":2}
]` + "\n```"
}
