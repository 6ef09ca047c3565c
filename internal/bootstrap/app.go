package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"cvtailor-backend/internal/cvs"
	"cvtailor-backend/internal/jobdescriptions"
	"cvtailor-backend/internal/ledger"
	"cvtailor-backend/internal/llm"
	openai "cvtailor-backend/internal/llm/openai"
	"cvtailor-backend/internal/queue"
	"cvtailor-backend/internal/quota"
	"cvtailor-backend/internal/shared/config"
	"cvtailor-backend/internal/shared/server"
	"cvtailor-backend/internal/shared/storage/db"
	"cvtailor-backend/internal/stages"
	"cvtailor-backend/internal/tailoring"
)

// App holds shared dependencies for both the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Queue  queue.Client

	CVRepo     cvs.Repo
	JDRepo     jobdescriptions.Repo
	RunRepo    tailoring.RunRepo
	LedgerRepo ledger.Repo

	QuotaService     *quota.Service
	StageDispatcher  *tailoring.StageDispatcher
	TailoringService *tailoring.Service

	CVHandler        *cvs.Handler
	JDHandler        *jobdescriptions.Handler
	TailoringHandler *tailoring.Handler
}

// Build wires shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}

	if app.DB != nil {
		app.CVRepo = &cvs.PGRepo{DB: app.DB}
		app.JDRepo = &jobdescriptions.PGRepo{DB: app.DB}
		app.RunRepo = &tailoring.PGRunRepo{DB: app.DB}
		app.LedgerRepo = &ledger.PGRepo{DB: app.DB}
		app.QuotaService = quota.NewService(&quota.PGStore{DB: app.DB}, app.LedgerRepo)
	} else {
		app.CVRepo = cvs.NewMemoryRepo()
		app.JDRepo = jobdescriptions.NewMemoryRepo()
		app.RunRepo = tailoring.NewMemoryRunRepo()
		app.LedgerRepo = ledger.NewMemoryRepo()
		app.QuotaService = quota.NewService(quota.NewMemoryStore(), app.LedgerRepo)
	}
	app.QuotaService.FreePlan = freePlan(cfg)

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	workers := &stages.Workers{CVs: app.CVRepo, JDs: app.JDRepo, LLM: llmClient}
	app.StageDispatcher = tailoring.NewStageDispatcher(workers, cfg.StageConcurrency)
	coordinator := tailoring.NewRetryCoordinator(app.StageDispatcher)

	app.TailoringService = tailoring.NewService(
		app.RunRepo, app.CVRepo, app.JDRepo, app.QuotaService, app.LedgerRepo, coordinator, nil)

	queueClient, err := buildQueue(ctx, cfg, app.TailoringService)
	if err != nil {
		return nil, err
	}
	app.Queue = queueClient
	app.TailoringService.Queue = queueClient

	app.CVHandler = cvs.NewHandler(app.CVRepo)
	app.JDHandler = jobdescriptions.NewHandler(app.JDRepo)
	app.TailoringHandler = tailoring.NewHandler(app.TailoringService)

	router, api := server.NewEngine(cfg)
	app.CVHandler.RegisterRoutes(api)
	app.JDHandler.RegisterRoutes(api)
	app.TailoringHandler.RegisterRoutes(api)
	app.Router = router

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.Env != "production" {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.Env != "production" {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	default:
		log.Printf("bootstrap: LLM_PROVIDER=%q; using static client", cfg.LLMProvider)
		return llm.StaticClient{Text: "{}"}, nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config, svc *tailoring.Service) (queue.Client, error) {
	if cfg.QueueBackend == "sqs" {
		return queue.NewSQSClient(ctx)
	}
	return queue.NewInProcess(func(ctx context.Context, m queue.Message) error {
		return svc.Execute(ctx, m.RunID)
	}), nil
}

func freePlan(cfg config.Config) quota.Plan {
	plan := quota.DefaultFreePlan()
	if cfg.FreePlanDailyLimit != 0 {
		plan.DailyRateLimit = cfg.FreePlanDailyLimit
	}
	if cfg.FreePlanWeeklyLimit != 0 {
		plan.WeeklyRateLimit = cfg.FreePlanWeeklyLimit
	}
	if cfg.FreePlanDurationDays > 0 {
		plan.DurationDays = cfg.FreePlanDurationDays
	}
	return plan
}
