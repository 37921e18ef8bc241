package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gridironpi/gridiron/internal/usecase"
)

// JobPublisher hands recurring ingestion dispatches to the external queue.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type runTaskRequest struct {
	Task   string `json:"task" validate:"required"`
	Week   int    `json:"week" validate:"gte=0,lte=18"`
	Season int    `json:"season" validate:"gte=0"`
}

// bootstrapDispatches seeds the queue with the recurring ingestion cadence.
// Delays stagger the first runs so the provider is not hit all at once.
var bootstrapDispatches = []struct {
	task  usecase.Task
	delay time.Duration
}{
	{task: usecase.TaskRefresh, delay: 0},
	{task: usecase.TaskProjections, delay: 2 * time.Minute},
	{task: usecase.TaskMatchups, delay: 4 * time.Minute},
	{task: usecase.TaskHeadshots, delay: 6 * time.Minute},
	{task: usecase.TaskDedupe, delay: 8 * time.Minute},
	{task: usecase.TaskSettle, delay: 10 * time.Minute},
}

func (h *Handler) RunIngestionTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestionTask")
	defer span.End()

	var req runTaskRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	task, err := usecase.ParseTask(req.Task)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.ingestionService.RunTask(ctx, usecase.TaskInput{
		Task:   task,
		Week:   req.Week,
		Season: req.Season,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "ingestion task failed", "task", string(task), "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	if h.jobPublisher == nil {
		writeError(ctx, w, fmt.Errorf("%w: job publisher is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	enqueued := make([]string, 0, len(bootstrapDispatches))
	for _, dispatch := range bootstrapDispatches {
		payload := map[string]any{"task": string(dispatch.task)}
		dedupID := "bootstrap-" + string(dispatch.task)
		if err := h.jobPublisher.Enqueue(ctx, "/v1/internal/tasks", payload, dispatch.delay, dedupID); err != nil {
			h.logger.WarnContext(ctx, "bootstrap enqueue failed", "task", string(dispatch.task), "error", err)
			writeError(ctx, w, fmt.Errorf("%w: enqueue %s: %v", usecase.ErrDependencyUnavailable, dispatch.task, err))
			return
		}
		enqueued = append(enqueued, string(dispatch.task))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"enqueued": enqueued})
}
