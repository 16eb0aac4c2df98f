package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aquaguard/backend/internal/config"
	"github.com/aquaguard/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypeAnalyze = "report:analyze"
)

// AnalysisTask carries everything the analyzer needs for one report. The
// payload mirrors AnalyzeRequest so sync and async paths share a processor.
type AnalysisTask struct {
	ReportID    string           `json:"report_id"`
	ReportType  string           `json:"report_type"`
	CountyID    string           `json:"county_id"`
	TownName    *string          `json:"town_name,omitempty"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Description *string          `json:"description,omitempty"`
	Weather     *WeatherSnapshot `json:"weather,omitempty"`
}

// ToAnalyzeRequest converts the queued payload into analyzer input.
func (t *AnalysisTask) ToAnalyzeRequest() *AnalyzeRequest {
	return &AnalyzeRequest{
		ReportID:    t.ReportID,
		ReportType:  t.ReportType,
		CountyID:    t.CountyID,
		TownName:    t.TownName,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		Description: t.Description,
		Weather:     t.Weather,
	}
}

// TaskQueue defines the interface for analysis task processing.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *AnalysisTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// Global task queue instance
var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config.
func InitTaskQueue(cfg *config.Config) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Warnf("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalTaskQueue = NewSyncQueue()
			} else {
				logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalTaskQueue = queue
			}
		} else {
			logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
			globalTaskQueue = NewSyncQueue()
		}
	})
	return globalTaskQueue
}

// GetTaskQueue returns the global task queue instance.
func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// AsyncQueue implements TaskQueue using asynq (Redis-based).
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue.
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before committing to async mode
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue adds an analysis task to the async queue. Analysis is not
// idempotent-safe, so requeue attempts after a successful run are rejected by
// the analyzer's write guard rather than retried here.
func (q *AsyncQueue) Enqueue(task *AnalysisTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeAnalyze, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(2),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Analysis task enqueued: id=%s, report=%s", info.ID, task.ReportID)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue with in-process processing (no Redis).
type SyncQueue struct {
	processor func(context.Context, *AnalysisTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function to process tasks.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *AnalysisTask) error) {
	q.processor = processor
}

// Enqueue processes the task in a goroutine so report submission responds
// immediately while analysis runs in the background.
func (q *SyncQueue) Enqueue(task *AnalysisTask) error {
	if q.processor == nil {
		logger.Warnf("[SyncQueue] No processor set, task for report %s dropped", task.ReportID)
		return nil
	}

	go func() {
		ctx := context.Background()
		if err := q.processor(ctx, task); err != nil {
			logger.Warnf("[SyncQueue] Analysis task failed for report %s: %v", task.ReportID, err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
