package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cheesecode/internal/database"
	"cheesecode/internal/domain"
	"cheesecode/internal/events"
	"cheesecode/internal/metrics"
	"cheesecode/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TaskAppend = "append"
	TaskDelete = "delete"
	TaskResync = "resync"
	TaskUsers  = "users"
)

// sheetTaskPayload is persisted in SyncTask.Payload as JSON.
type sheetTaskPayload struct {
	BookingID string          `json:"booking_id,omitempty"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

// SheetsWorker drains the sync_queue and applies each task to the
// spreadsheet ledger. Tasks are persisted in SQLite first; Redis is a
// fast-path transport on top, with an in-memory channel as fallback, so a
// dead Redis degrades to DB polling rather than losing work.
type SheetsWorker struct {
	db            *database.DB
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	log           zerolog.Logger
}

func NewSheetsWorker(db *database.DB, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 5
	}
	if retry.Base == 0 {
		retry.Base = 2 * time.Second
	}
	if retry.Cap == 0 {
		retry.Cap = 1 * time.Minute
	}
	if retry.Factor == 0 {
		retry.Factor = 2
	}

	var workerLogger zerolog.Logger
	if logger != nil {
		workerLogger = logger.With().Str("component", "sheets_worker").Logger()
	} else {
		workerLogger = zerolog.Nop()
	}

	return &SheetsWorker{
		db:            db,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.SyncTask, models.WorkerQueueSize),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		log:           workerLogger,
	}
}

// EnqueueAppend schedules one booking row append.
func (w *SheetsWorker) EnqueueAppend(ctx context.Context, booking *models.Booking) error {
	if booking == nil || booking.ID == "" {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, TaskAppend, sheetTaskPayload{BookingID: booking.ID, Booking: booking})
}

// EnqueueDelete schedules removal of a booking row.
func (w *SheetsWorker) EnqueueDelete(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return errors.New("booking id is required")
	}
	return w.enqueue(ctx, TaskDelete, sheetTaskPayload{BookingID: bookingID})
}

// EnqueueResync schedules a full rewrite of the bookings sheet from the DB.
func (w *SheetsWorker) EnqueueResync(ctx context.Context) error {
	return w.enqueue(ctx, TaskResync, sheetTaskPayload{})
}

// EnqueueUsersSync schedules a rewrite of the users sheet from the DB.
func (w *SheetsWorker) EnqueueUsersSync(ctx context.Context) error {
	return w.enqueue(ctx, TaskUsers, sheetTaskPayload{})
}

// SubscribeEvents connects the worker to the event bus: booking mutations
// and registrations published by the services feed the sync queue.
func (w *SheetsWorker) SubscribeEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode booking event: %w", err)
		}
		ctx := context.Background()
		booking, err := w.db.GetBooking(ctx, p.BookingID)
		if err != nil {
			w.log.Error().Err(err).Str("booking_id", p.BookingID).Msg("load booking for sheet append")
			return err
		}
		return w.EnqueueAppend(ctx, booking)
	})

	bus.Subscribe(events.EventBookingDeleted, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return fmt.Errorf("decode booking event: %w", err)
		}
		return w.EnqueueDelete(context.Background(), p.BookingID)
	})

	bus.Subscribe(events.EventUserRegistered, func(e *events.Event) error {
		return w.EnqueueUsersSync(context.Background())
	})
}

func (w *SheetsWorker) enqueue(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	syncTask := models.SyncTask{
		TaskType:  taskType,
		BookingID: payload.BookingID,
		Payload:   string(payloadBytes),
		Status:    models.SyncStatusPending,
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateSyncTask(ctx, &syncTask); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	// Try redis first; the polling loop picks up anything that misses both.
	if w.redis != nil {
		if err := w.pushRedis(ctx, syncTask); err != nil {
			w.log.Warn().Err(err).Msg("redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- syncTask:
	default:
		w.log.Warn().Int64("task_id", syncTask.ID).Msg("in-memory queue full, task left to polling")
	}

	return nil
}

// Start runs the main loop until ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("started")
	defer w.log.Info().Msg("stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			w.log.Error().Err(err).Msg("fetch pending tasks")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SheetsWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("redis BRPOP error")
		}
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.log.Error().Err(err).Msg("decode redis task")
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	var payload sheetTaskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleSheetTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.MarkSyncTaskCompleted(ctx, task.ID); err != nil {
		w.log.Error().Err(err).Int64("task_id", task.ID).Msg("mark completed")
	}
	metrics.SyncTaskProcessed("completed")
}

func (w *SheetsWorker) handleSheetTask(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	switch taskType {
	case TaskAppend:
		if payload.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.AppendBooking(ctx, payload.Booking)
	case TaskDelete:
		if payload.BookingID == "" {
			return errors.New("booking id missing")
		}
		return w.sheets.DeleteBookingRow(ctx, payload.BookingID)
	case TaskResync:
		bookings, err := w.db.GetAllBookings(ctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		return w.sheets.ReplaceBookingsSheet(ctx, bookings)
	case TaskUsers:
		users, err := w.db.GetAllUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return w.sheets.UpdateUsersSheet(ctx, users)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxAttempts {
		w.failTask(ctx, task, cause)
		return
	}

	nextTime := time.Now().Add(w.retryPolicy.Delay(attempt))
	if err := w.db.MarkSyncTaskRetry(ctx, task.ID, attempt, cause.Error(), nextTime); err != nil {
		w.log.Error().Err(err).Int64("task_id", task.ID).Msg("mark retry")
	}
	metrics.SyncTaskProcessed("retry")
}

func (w *SheetsWorker) failTask(ctx context.Context, task *models.SyncTask, cause error) {
	if err := w.db.MarkSyncTaskFailed(ctx, task.ID, cause.Error()); err != nil {
		w.log.Error().Err(err).Int64("task_id", task.ID).Msg("mark failed")
	}
	w.pushDeadLetter(ctx, task)
	metrics.SyncTaskProcessed("failed")
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.log.Error().Err(err).Int64("task_id", task.ID).Msg("encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.log.Error().Err(err).Int64("task_id", task.ID).Msg("deadletter push")
	}
}
