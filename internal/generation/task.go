package generation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type TaskID string

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ProductData is the enrichment result of a completed task.
type ProductData struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Image       string          `json:"image,omitempty"`
	SourceURL   string          `json:"sourceUrl"`
}

type Task struct {
	ID          TaskID       `json:"task_id"`
	Status      TaskStatus   `json:"status"`
	ProductData *ProductData `json:"product_data,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Check enforces that product data only accompanies completed tasks and an
// error only accompanies failed ones.
func (t Task) Check() error {
	if !t.Status.Valid() {
		return fmt.Errorf("task %s: unknown status %q", t.ID, t.Status)
	}
	if (t.ProductData != nil) != (t.Status == StatusCompleted) {
		return fmt.Errorf("task %s: product_data with status %s", t.ID, t.Status)
	}
	if t.Error != "" && t.Status != StatusFailed {
		return fmt.Errorf("task %s: error with status %s", t.ID, t.Status)
	}
	return nil
}

// API is the remote side of a generation task.
type API interface {
	Submit(ctx context.Context, url string) (TaskID, error)
	Status(ctx context.Context, id TaskID) (Task, error)
}
