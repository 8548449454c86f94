package order

import (
	"time"

	"litorders/internal/literature"
)

type ItemInput struct {
	LiteratureID int64 `json:"literatureId"`
	Quantity     int   `json:"quantity"`
}

// CreateRequest is the POST /api/orders payload.
type CreateRequest struct {
	Title       string      `json:"title"`
	CreatedBy   string      `json:"createdBy"`
	Description *string     `json:"description"`
	Unit        *string     `json:"unit"`
	Quantity    *int        `json:"quantity"`
	Priority    *string     `json:"priority"`
	Items       []ItemInput `json:"items"`
}

// UpdatePatch is the parsed PUT /api/orders/:id payload. The Set flags
// distinguish an absent field from an explicit null, which clears it.
type UpdatePatch struct {
	Title *string

	Description    *string
	DescriptionSet bool

	Unit    *string
	UnitSet bool

	Quantity    *int
	QuantitySet bool

	Priority *Priority
}

// ListQuery carries the raw, already single-valued filter params.
type ListQuery struct {
	Status    *string
	CreatedBy *string
}

// ItemDTO is a line item enriched with its computed total.
type ItemDTO struct {
	ID           int64                 `json:"id"`
	OrderID      int64                 `json:"orderId"`
	LiteratureID int64                 `json:"literatureId"`
	Quantity     int                   `json:"quantity"`
	Price        int64                 `json:"price"`
	CreatedAt    time.Time             `json:"createdAt"`
	Literature   literature.Literature `json:"literature"`
	LineTotal    int64                 `json:"lineTotal"`
}

// OrderDTO is the enriched order shape every read path returns.
type OrderDTO struct {
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
	Items       []ItemDTO `json:"items"`
	TotalAmount int64     `json:"totalAmount"`
}

// Enrich is a pure projection: lineTotal and totalAmount are computed
// on every read and never stored.
func Enrich(o *Order) *OrderDTO {
	dto := &OrderDTO{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Quantity:    o.Quantity,
		Unit:        o.Unit,
		Priority:    o.Priority,
		Status:      o.Status,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       make([]ItemDTO, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		line := it.Price * int64(it.Quantity)
		dto.Items = append(dto.Items, ItemDTO{
			ID:           it.ID,
			OrderID:      it.OrderID,
			LiteratureID: it.LiteratureID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			CreatedAt:    it.CreatedAt,
			Literature:   it.Literature,
			LineTotal:    line,
		})
		dto.TotalAmount += line
	}
	return dto
}
