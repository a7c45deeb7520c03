package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/istmoglobal/storefront/internal/catalogimport"
	jobmetrics "github.com/istmoglobal/storefront/internal/jobs"
)

// CatalogImporter runs one import job.
type CatalogImporter interface {
	Run(ctx context.Context, jobID string, data []byte) (catalogimport.Result, error)
}

// CatalogImportJob executes TaskCatalogImport tasks.
type CatalogImportJob struct {
	Importer CatalogImporter
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewCatalogImportJob constructs the job handler.
func NewCatalogImportJob(importer CatalogImporter, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogImportJob {
	return &CatalogImportJob{Importer: importer, Logger: logger, Metrics: metrics}
}

// Handle executes the import job.
func (j *CatalogImportJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Importer == nil {
		return errors.New("catalog import job not configured")
	}
	var payload CatalogImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobID == "" {
		return fmt.Errorf("missing job id: %w", asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskCatalogImport)
	res, err := j.Importer.Run(ctx, payload.JobID, payload.CSV)
	j.Metrics.AddImported("created", res.Created)
	j.Metrics.AddImported("failed", res.Failed)
	j.Metrics.AddImported("skipped", res.Skipped)
	if err != nil {
		j.logger().Error("catalog import failed", slog.String("job", payload.JobID), slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger().Info("catalog import completed",
		slog.String("job", payload.JobID),
		slog.Int("created", res.Created),
		slog.Int("failed", res.Failed),
		slog.Int("skipped", res.Skipped))
	return tracker.End(nil)
}

func (j *CatalogImportJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
