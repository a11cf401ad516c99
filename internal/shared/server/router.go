package server

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"tnc-backend/internal/analyses"
	"tnc-backend/internal/companies"
	"tnc-backend/internal/fetcher"
	"tnc-backend/internal/llm"
	"tnc-backend/internal/llm/ollama"
	"tnc-backend/internal/shared/config"
	"tnc-backend/internal/shared/metrics"
	"tnc-backend/internal/shared/server/middleware"
	"tnc-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	dataset, err := companies.Load(cfg.DatasetPath)
	if err != nil {
		log.Printf("failed to load company dataset: %v", err)
		dataset = companies.NewDataset(nil)
	}

	var modelClient llm.Client = llm.PlaceholderClient{}
	capability := llm.Capability{}
	if client, err := ollama.NewClient(cfg.OllamaURL); err != nil {
		log.Printf("invalid ollama config: %v", err)
	} else {
		modelClient = client
		capability = llm.Probe(context.Background(), client, cfg.OllamaModel)
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	svc := &analyses.Service{
		Repo:         repo,
		LLM:          modelClient,
		Capability:   capability,
		Fetcher:      fetcher.New(),
		Dataset:      dataset,
		ComparePause: time.Second,
	}

	handler := analyses.NewHandler(svc, dataset, sqlDB != nil)
	handler.RegisterRoutes(r)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
