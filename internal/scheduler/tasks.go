package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskMaterializeBatch = "orders.materialize_batch"

// MaterializeBatchPayload drives one batch of a materialization run. The
// first batch is enqueued with an empty RunID and WeekStart; the worker
// fills them in and carries them forward so every batch of the run shares
// one creation-run id and one target week.
type MaterializeBatchPayload struct {
	RunID      string `json:"runId,omitempty"`
	BatchIndex int    `json:"batchIndex"`
	BatchSize  int    `json:"batchSize,omitempty"`
	WeekStart  string `json:"weekStart,omitempty"`
}

func NewMaterializeBatchTask(payload MaterializeBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaterializeBatch, data), nil
}

func ParseMaterializeBatchPayload(task *asynq.Task) (MaterializeBatchPayload, error) {
	var payload MaterializeBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MaterializeBatchPayload{}, err
	}
	return payload, nil
}
