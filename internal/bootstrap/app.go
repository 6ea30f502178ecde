package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"essay-backend/internal/cleanup"
	"essay-backend/internal/feedback"
	"essay-backend/internal/llm"
	"essay-backend/internal/llm/gemini"
	"essay-backend/internal/llm/openai"
	"essay-backend/internal/shared/auth"
	"essay-backend/internal/shared/config"
	"essay-backend/internal/shared/keylock"
	"essay-backend/internal/shared/server"
	"essay-backend/internal/shared/storage/db"
	"essay-backend/internal/shared/storage/object"
	localstore "essay-backend/internal/shared/storage/object/local"
	memstore "essay-backend/internal/shared/storage/object/memory"
	s3store "essay-backend/internal/shared/storage/object/s3"
	"essay-backend/internal/users"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Mongo           *mongo.Client
	Store           object.Store
	LLM             llm.Client
	Signer          *auth.Signer
	Cleanup         *cleanup.Scheduler
	FeedbackService *feedback.Service
	UsersRepo       users.Repo
	UsersService    *users.Service
	FeedbackHandler *feedback.Handler
	UsersHandler    *users.Handler

	closers []func() error
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	client, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.LLM = client
	if c, ok := client.(interface{ Close() error }); ok {
		app.closers = append(app.closers, c.Close)
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL, cfg.Env)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Signer = signer

	repo, err := app.buildUsersRepo(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.UsersRepo = repo

	locks := &keylock.Map{}
	app.Cleanup = cleanup.NewScheduler(store, locks)
	app.FeedbackService = &feedback.Service{
		LLM:           client,
		Store:         store,
		Log:           feedback.NewFileLog(cfg.FeedbackLogPath),
		Cleanup:       app.Cleanup,
		CleanupDelay:  cfg.CleanupDelay,
		PromptVersion: cfg.PromptVersion,
		Locks:         locks,
	}
	app.UsersService = users.NewService(repo, signer)
	app.FeedbackHandler = feedback.NewHandler(app.FeedbackService, cfg.MaxUploadBytes)
	app.UsersHandler = users.NewHandler(app.UsersService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Signer:          signer,
		FeedbackHandler: app.FeedbackHandler,
		UserHandler:     app.UsersHandler,
	})
	return app, nil
}

// Close stops pending cleanups and releases connections.
func (a *App) Close() error {
	if a.Cleanup != nil {
		a.Cleanup.Shutdown()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.UploadStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("UPLOAD_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	case "memory":
		return memstore.New(), nil
	default:
		return localstore.New(cfg.UploadDir)
	}
}

// NewLLMClient returns the model client for cfg.LLMProvider. In dev environments a missing key
// yields the placeholder client.
func NewLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" && config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; feedback requests will fail")
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		if cfg.GeminiAPIKey == "" && config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: API_KEY empty; feedback requests will fail")
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func (a *App) buildUsersRepo(ctx context.Context) (users.Repo, error) {
	cfg := a.Config
	switch cfg.UserStoreType {
	case "postgres":
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, err
		}
		a.DB = sqlDB
		a.closers = append(a.closers, sqlDB.Close)
		if config.IsDevLike(cfg.Env) {
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				return nil, err
			}
		}
		return &users.PGRepo{DB: sqlDB}, nil
	case "mongo":
		client, err := users.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.Mongo = client
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		return users.NewMongoRepo(ctx, client, cfg.MongoDatabase)
	default:
		return users.NewMemoryRepo(), nil
	}
}
