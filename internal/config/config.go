package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Transport string

const (
	TransportCallable  Transport = "callable"
	TransportFetch     Transport = "fetch"
	TransportAnthropic Transport = "anthropic"
	TransportCLI       Transport = "cli"
	TransportMock      Transport = "mock"
)

type HandoffDriver string

const (
	HandoffSQLite   HandoffDriver = "sqlite"
	HandoffPostgres HandoffDriver = "postgres"
	HandoffRedis    HandoffDriver = "redis"
	HandoffMemory   HandoffDriver = "memory"
)

type Config struct {
	Port        string
	CORSOrigins []string

	Transport     Transport
	RemoteBaseURL string
	RemoteOrigin  string
	RemoteTimeout time.Duration

	AnthropicModel  string
	AnthropicAPIKey string
	ClaudeCLIPath   string
	Subject         string
	QuestionCount   int

	HandoffDriver HandoffDriver
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HandoffTTL    time.Duration

	BlobBasePath string

	ClientTokenSecret string
	QuizTimeLimit     int

	// StateTTL is how long an untouched plan form or quiz session is kept.
	StateTTL      time.Duration
	SweepInterval time.Duration
}

func FromEnv() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		Transport:     Transport(strings.ToLower(envOr("REMOTE_TRANSPORT", string(TransportMock)))),
		RemoteBaseURL: envOr("REMOTE_BASE_URL", "http://127.0.0.1:5001/studysprint/us-central1"),
		RemoteOrigin:  envOr("REMOTE_ORIGIN", "http://localhost:3000"),
		RemoteTimeout: envDuration("REMOTE_TIMEOUT", 120*time.Second),

		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeCLIPath:   envOr("CLAUDE_CLI_PATH", "claude"),
		Subject:         envOr("QUIZ_SUBJECT", "Engineering Calculus"),
		QuestionCount:   envInt("QUIZ_QUESTION_COUNT", 5),

		HandoffDriver: HandoffDriver(strings.ToLower(envOr("HANDOFF_DRIVER", string(HandoffSQLite)))),
		DBDSN:         os.Getenv("DB_DSN"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		HandoffTTL:    envDuration("HANDOFF_TTL", 0),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		ClientTokenSecret: envOr("CLIENT_TOKEN_SECRET", "studysprint-dev-client-key"),
		QuizTimeLimit:     envInt("QUIZ_TIME_LIMIT", 300),

		StateTTL:      envDuration("STATE_TTL", 2*time.Hour),
		SweepInterval: envDuration("STATE_SWEEP_INTERVAL", 5*time.Minute),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
