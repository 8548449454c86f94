// Package order implements the order core: validation, the status state
// machine, transactional creation with catalog price snapshots, and the
// enriched read projection.
package order

import (
	"time"

	"litorders/internal/literature"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusClosed     Status = "closed"
)

type Order struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Quantity    *int      `json:"quantity"`
	Unit        *string   `json:"unit"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Items are loaded with the order, sorted by the referenced
	// literature's sortOrder.
	Items []Item `json:"items"`
}

type Item struct {
	ID           int64 `json:"id"`
	OrderID      int64 `json:"orderId"`
	LiteratureID int64 `json:"literatureId"`
	Quantity     int   `json:"quantity"`
	// Price is the literature price snapshotted at order creation, in
	// minor currency units. Later catalog changes never touch it.
	Price      int64                 `json:"price"`
	CreatedAt  time.Time             `json:"createdAt"`
	Literature literature.Literature `json:"literature"`
}
