// Package literature provides the catalog store and its bulk-replace import.
package literature

import "time"

type Literature struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	// Price is in minor currency units (cents).
	Price     int64     `json:"price"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
