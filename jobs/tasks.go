// Package jobs holds the background worker and its task definitions.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogSync refreshes the local product catalog snapshot.
	TaskCatalogSync = "catalog:sync"
)

// CatalogSyncPayload contains options for the catalog sync job.
type CatalogSyncPayload struct {
	Force bool `json:"force"`
}

// NewCatalogSyncTask builds a catalog sync task.
func NewCatalogSyncTask(force bool) (*asynq.Task, error) {
	body, err := json.Marshal(CatalogSyncPayload{Force: force})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogSync, body, asynq.Queue(QueueDefault)), nil
}

// CatalogSyncer runs one catalog refresh.
type CatalogSyncer interface {
	Sync(ctx context.Context) (int, error)
}

// NewCatalogSyncHandler wires the syncer into an Asynq handler.
func NewCatalogSyncHandler(syncer CatalogSyncer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CatalogSyncPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		count, err := syncer.Sync(ctx)
		if err != nil {
			logger.Error("catalog sync failed", slog.Any("error", err))
			return err
		}
		logger.Info("catalog sync done", slog.Int("products", count), slog.Bool("force", payload.Force))
		return nil
	}
}
