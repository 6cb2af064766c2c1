package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	googleauth "talentflow-api/internal/auth"
	"talentflow-api/internal/candidates"
	"talentflow-api/internal/email"
	"talentflow-api/internal/extract"
	"talentflow-api/internal/jobapps"
	"talentflow-api/internal/jobdesc"
	"talentflow-api/internal/jobs"
	"talentflow-api/internal/llm"
	"talentflow-api/internal/llm/gemini"
	openai "talentflow-api/internal/llm/openai"
	"talentflow-api/internal/queue"
	"talentflow-api/internal/realtime"
	"talentflow-api/internal/scoring"
	"talentflow-api/internal/screening"
	"talentflow-api/internal/services/health"
	"talentflow-api/internal/shared/auth"
	"talentflow-api/internal/shared/config"
	"talentflow-api/internal/shared/server"
	"talentflow-api/internal/shared/storage/db"
	"talentflow-api/internal/shared/storage/object"
	localstore "talentflow-api/internal/shared/storage/object/local"
	s3store "talentflow-api/internal/shared/storage/object/s3"
	"talentflow-api/internal/shared/telemetry"
	"talentflow-api/internal/users"
	"talentflow-api/internal/workerproc"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Queue  queue.Client

	// LocalQueue is set when screening runs in-process instead of through SQS.
	LocalQueue *queue.LocalClient

	Extractor     *extract.Extractor
	Completer     llm.Completer
	Scorer        *scoring.Engine
	JobDescGen    *jobdesc.Generator
	Signer        *auth.Signer
	Mailer        *email.Mailer
	Realtime      *realtime.Client
	Screener      *screening.Screener
	Candidates    *candidates.Service
	Jobs          *jobs.Service
	JobApps       *jobapps.Service
	JobAppsRepo   jobapps.Repo
	Users         *users.Service
	ScoringFlow   *screening.Service
	GoogleAuth    *googleauth.GoogleService
	HealthService *health.Service
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.SessionTTL, cfg.Env == "production")
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Signer: signer,
	}

	app.Completer = BuildCompleter(ctx, cfg)
	app.Extractor = BuildExtractor(cfg)
	app.Scorer = scoring.NewEngine(app.Completer, cfg.LLMTemperature, cfg.LLMMaxTokens)
	app.JobDescGen = jobdesc.NewGenerator(app.Completer, cfg.LLMTemperature, cfg.LLMMaxTokens)

	if err := buildQueue(ctx, app); err != nil {
		return nil, err
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	var uploadsDir string
	if local, ok := store.(*localstore.Store); ok {
		uploadsDir = local.Dir()
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Authenticator:     app.Users,
		Health:            app.HealthService,
		UploadsDir:        uploadsDir,
		UsersHandler:      users.NewHandler(app.Users),
		GoogleAuth:        app.GoogleAuth,
		ScreeningHandler:  screening.NewHandler(app.ScoringFlow),
		CandidatesHandler: candidates.NewHandler(app.Candidates),
		JobDescHandler:    jobdesc.NewHandler(app.JobDescGen),
		JobsHandler:       jobs.NewHandler(app.Jobs),
		JobAppsHandler:    jobapps.NewHandler(app.JobApps),
		EmailHandler:      email.NewHandler(app.Mailer),
		RealtimeHandler:   realtime.NewHandler(app.Realtime),
	})

	return app, nil
}

// Close drains in-process screening and releases connections.
func (a *App) Close() error {
	if a.LocalQueue != nil {
		a.LocalQueue.Wait()
	}
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_url_empty", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.CurrentProfile().Defaults().Override(cfg.DBPool()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_connect_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

// BuildExtractor uses Mistral OCR for PDFs when a key is configured.
func BuildExtractor(cfg config.Config) *extract.Extractor {
	var pdf extract.PDFAdapter = extract.LocalPDF{}
	if strings.TrimSpace(cfg.MistralAPIKey) != "" {
		pdf = extract.NewMistralOCR(cfg.MistralBaseURL, cfg.MistralAPIKey, cfg.MistralOCRModel, cfg.OCRTimeout)
	} else {
		telemetry.Warn("bootstrap.ocr_not_configured", map[string]any{"fallback": "local_pdf"})
	}
	return extract.New(pdf, extract.DOCXReader{})
}

// BuildCompleter picks the chat model provider. Missing credentials yield a
// completer that fails every call so the rest of the API still serves.
func BuildCompleter(ctx context.Context, cfg config.Config) llm.Completer {
	var (
		completer llm.Completer
		err       error
	)
	switch cfg.LLMProvider {
	case "openai":
		completer, err = openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		})
	case "gemini":
		completer, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
	default:
		completer, err = openai.NewAzureClient(openai.AzureConfig{
			Endpoint:   cfg.AzureEndpoint,
			APIKey:     cfg.AzureAPIKey,
			APIVersion: cfg.AzureAPIVersion,
			Deployment: cfg.AzureDeployment,
			Model:      cfg.AzureModel,
			Timeout:    cfg.LLMTimeout,
		})
	}
	if err != nil {
		telemetry.Warn("bootstrap.llm_not_configured", map[string]any{"provider": cfg.LLMProvider, "error": err.Error()})
		return llm.Unconfigured{Provider: cfg.LLMProvider}
	}
	return completer
}

func buildQueue(ctx context.Context, app *App) error {
	if url := strings.TrimSpace(app.Config.SQSQueueURL); url != "" {
		client, err := queue.NewSQSClient(ctx, app.Config.AWSRegion, url)
		if err != nil {
			return err
		}
		app.Queue = client
		return nil
	}
	local := queue.NewLocalClient(app.Config.WorkerConcurrency)
	app.LocalQueue = local
	app.Queue = local
	return nil
}

func buildSessions(app *App) (users.SessionRepo, error) {
	switch app.Config.SessionStore {
	case "redis":
		if strings.TrimSpace(app.Config.RedisURL) == "" {
			return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
		}
		opts, err := redis.ParseURL(app.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		app.Redis = redis.NewClient(opts)
		return users.NewRedisSessionRepo(app.Redis), nil
	case "memory":
		return users.NewMemorySessionRepo(), nil
	default:
		if app.DB != nil {
			return &users.PGSessionRepo{DB: app.DB}, nil
		}
		return users.NewMemorySessionRepo(), nil
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	var (
		userRepo      users.Repo
		candidateRepo candidates.Repo
		jobRepo       jobs.Repo
		jobAppRepo    jobapps.Repo
		cascade       jobs.Cascader
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		candidateRepo = &candidates.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		jobAppRepo = &jobapps.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		candidateRepo = candidates.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		memApps := jobapps.NewMemoryRepo()
		jobAppRepo = memApps
		cascade = memApps
	}

	sessions, err := buildSessions(app)
	if err != nil {
		return err
	}

	app.Users = users.NewService(userRepo, sessions, app.Signer, cfg.BcryptCost)
	app.Candidates = candidates.NewService(candidateRepo, app.Store, cfg.ResumeURLTTL)
	app.Jobs = jobs.NewService(jobRepo, cascade)
	app.JobAppsRepo = jobAppRepo
	app.JobApps = jobapps.NewService(jobAppRepo, app.Jobs, app.Store, app.Queue, cfg.ResumeURLTTL)
	app.ScoringFlow = screening.NewService(app.Extractor, app.Scorer, app.Store, app.Candidates)
	app.Screener = screening.NewScreener(jobAppRepo, app.Jobs, app.Store, app.Extractor, app.Scorer)

	if app.LocalQueue != nil {
		screener := app.Screener
		app.LocalQueue.SetHandler(func(ctx context.Context, msg queue.Message) error {
			return workerproc.Process(ctx, screener, msg)
		})
	}

	app.Mailer = email.NewMailer(email.SMTPDialer(cfg.SMTPHost, cfg.SMTPPort), cfg.EmailSender, cfg.EmailPassword, cfg.EmailSendDelay)
	app.Realtime = realtime.NewClient("", cfg.OpenAIAPIKey, cfg.RealtimeModel, cfg.RealtimeVoice, cfg.RealtimeTimeout)
	var states googleauth.StateStore
	if app.Redis != nil {
		states = googleauth.NewRedisStateStore(app.Redis)
	}
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.GoogleRedirectURL,
		UIRedirectURL: cfg.UIRedirectURL,
	}, app.Users, states)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(pinger)
	return nil
}
