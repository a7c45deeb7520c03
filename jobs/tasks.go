package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogImport is the task type for bulk catalog CSV imports.
	TaskCatalogImport = "catalog:import"
)

// CatalogImportPayload carries an uploaded CSV document to the worker.
type CatalogImportPayload struct {
	JobID string `json:"job_id"`
	CSV   []byte `json:"csv"`
}

// NewCatalogImportTask constructs an Asynq task. Imports are not retried
// because a partial run already wrote some products.
func NewCatalogImportTask(payload CatalogImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogImport, data, asynq.Queue(QueueDefault), asynq.MaxRetry(0)), nil
}
