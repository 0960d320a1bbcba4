package handlers

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/logic"
	"github.com/draftlab/draft-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the event ingestion worker pool
type IngestQueue interface {
	Enqueue(event *models.DraftEvent) bool
	QueueDepth() int
}

type Config struct {
	WorkerPool IngestQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Assistant logic.AssistantService
	Game      logic.GameService
}

type Handler struct {
	pool      IngestQueue
	pg        *pgxpool.Pool
	ch        driver.Conn
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
	assistant logic.AssistantService
	game      logic.GameService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:      cfg.WorkerPool,
		pg:        cfg.Postgres,
		ch:        cfg.ClickHouse,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		assistant: cfg.Assistant,
		game:      cfg.Game,
	}
}
