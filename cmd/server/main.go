package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/study-sprint/planner/internal/auth"
	"github.com/study-sprint/planner/internal/config"
	"github.com/study-sprint/planner/internal/database"
	"github.com/study-sprint/planner/internal/generator"
	"github.com/study-sprint/planner/internal/handoff"
	"github.com/study-sprint/planner/internal/plan"
	"github.com/study-sprint/planner/internal/quiz"
	"github.com/study-sprint/planner/internal/remote"
	"github.com/study-sprint/planner/internal/stream"
	"github.com/study-sprint/planner/internal/upload"
)

func main() {
	cfg := config.FromEnv()

	// Syllabus storage
	blobs, err := upload.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}
	uploader := upload.NewUploader(blobs)

	// Syllabus path handoff
	paths, closePaths := openHandoff(cfg)
	defer closePaths()

	// Remote calls
	client := newRemoteClient(cfg, uploader)

	// Live quiz stream
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Stop()

	registry := quiz.NewRegistry(client, func(clientID string, v quiz.View) {
		hub.Send(clientID, quiz.MessageType, v)
	}, quiz.WithTimeLimit(cfg.QuizTimeLimit))

	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range cfg.CORSOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}

	// Idle state sweepers
	planService := plan.NewService(uploader, client, paths)
	sweepCtx, stopSweepers := context.WithCancel(context.Background())
	defer stopSweepers()
	go planService.StartSweeper(sweepCtx, cfg.SweepInterval, cfg.StateTTL)
	go registry.StartSweeper(sweepCtx, cfg.SweepInterval, cfg.StateTTL)

	// Initialize handlers
	planHandler := plan.NewHandler(planService)
	quizHandler := quiz.NewHandler(registry, paths, hub, upgrader, cfg.RemoteTimeout)
	clients := auth.NewIssuer(cfg.ClientTokenSecret)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(clients.Middleware)

	// Study plan
	api.HandleFunc("/plan/file", planHandler.SelectFile).Methods("POST")
	api.HandleFunc("/plan/exam-date", planHandler.SetExamDate).Methods("POST")
	api.HandleFunc("/plan/generate", planHandler.Generate).Methods("POST")
	api.HandleFunc("/plan", planHandler.Get).Methods("GET")
	api.HandleFunc("/plan/topics/{row:[0-9]+}", planHandler.ToggleTopic).Methods("POST")
	api.HandleFunc("/plan/tab", planHandler.SwitchTab).Methods("POST")

	// Quiz
	api.HandleFunc("/quiz", quizHandler.Start).Methods("POST")
	api.HandleFunc("/quiz", quizHandler.Get).Methods("GET")
	api.HandleFunc("/quiz/answers", quizHandler.SelectOption).Methods("POST")
	api.HandleFunc("/quiz/navigate", quizHandler.Navigate).Methods("POST")
	api.HandleFunc("/quiz/jump", quizHandler.Jump).Methods("POST")
	api.HandleFunc("/quiz/submit", quizHandler.Submit).Methods("POST")
	api.HandleFunc("/quiz/stream", quizHandler.Stream).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s (transport=%s, handoff=%s)", cfg.Port, cfg.Transport, cfg.HandoffDriver)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func openHandoff(cfg config.Config) (handoff.Store, func()) {
	switch cfg.HandoffDriver {
	case config.HandoffMemory:
		log.Println("Syllabus paths kept in memory")
		return handoff.NewMemoryStore(), func() {}

	case config.HandoffRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := handoff.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.HandoffTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		return store, func() { store.Close() }

	case config.HandoffSQLite, config.HandoffPostgres:
		driver := database.Driver(cfg.HandoffDriver)
		db, err := database.Connect(driver, cfg.DBDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db, driver); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("Syllabus paths stored in %s", driver)
		return handoff.NewSQLStore(db), func() { db.Close() }

	default:
		log.Fatalf("Unknown HANDOFF_DRIVER %q", cfg.HandoffDriver)
		return nil, nil
	}
}

func newRemoteClient(cfg config.Config, uploader *upload.Uploader) remote.Client {
	switch cfg.Transport {
	case config.TransportCallable:
		log.Println("Remote calls via callable functions at", cfg.RemoteBaseURL)
		return remote.NewCallableClient(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	case config.TransportFetch:
		log.Println("Remote calls via HTTP at", cfg.RemoteBaseURL)
		return remote.NewFetchClient(cfg.RemoteBaseURL, cfg.RemoteOrigin)
	}

	opts := generator.Options{
		Model:         cfg.AnthropicModel,
		APIKey:        cfg.AnthropicAPIKey,
		CLIPath:       cfg.ClaudeCLIPath,
		Subject:       cfg.Subject,
		QuestionCount: cfg.QuestionCount,
	}
	switch cfg.Transport {
	case config.TransportAnthropic:
		opts.Backend = generator.BackendAPI
	case config.TransportCLI:
		opts.Backend = generator.BackendCLI
	case config.TransportMock:
		opts.Backend = generator.BackendMock
	default:
		log.Fatalf("Unknown REMOTE_TRANSPORT %q", cfg.Transport)
	}
	gen := generator.NewGenerator(opts, generator.PDFText(uploader.Resolver()))
	log.Printf("Remote calls answered in-process by %s", gen.ModelName())
	return remote.NewDirectClient(gen)
}
