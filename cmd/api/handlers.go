package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"litorders/internal/httpx"
	"litorders/internal/literature"
	"litorders/internal/order"
)

// respondError maps the error taxonomy to the wire contract: validation
// and illegal transitions → 400, missing order → 404, constraint
// violations surfaced by postgres → 400 with the store's message,
// anything else → 500 with a fixed body.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if order.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": pgErr.Message})
		return
	}
	log.Error("unexpected error", zap.String("rid", c.GetString("rid")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return id, true
}

// singleQuery rejects multi-valued query parameters.
func singleQuery(c *gin.Context, name string) (*string, bool) {
	vals := c.Request.URL.Query()[name]
	switch len(vals) {
	case 0:
		return nil, true
	case 1:
		return &vals[0], true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a single value"})
		return nil, false
	}
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func listLiteratureHandler(repo literature.Repository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func listOrdersHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := singleQuery(c, "status")
		if !ok {
			return
		}
		createdBy, ok := singleQuery(c, "createdBy")
		if !ok {
			return
		}
		out, err := svc.List(c.Request.Context(), order.ListQuery{Status: status, CreatedBy: createdBy})
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		out, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func createOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := false
		defer func() { httpx.RecordOrderOperation("create", ok) }()

		var req order.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		out, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			respondError(c, log, err)
			return
		}
		ok = true
		c.JSON(http.StatusCreated, out)
	}
}

func updateOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := false
		defer func() { httpx.RecordOrderOperation("update", ok) }()

		id, idOK := parseID(c)
		if !idOK {
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		out, err := svc.Update(c.Request.Context(), id, body)
		if err != nil {
			respondError(c, log, err)
			return
		}
		ok = true
		c.JSON(http.StatusOK, out)
	}
}

func updateOrderStatusHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := false
		defer func() { httpx.RecordOrderOperation("status", ok) }()

		id, idOK := parseID(c)
		if !idOK {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		out, err := svc.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, log, err)
			return
		}
		ok = true
		c.JSON(http.StatusOK, out)
	}
}

func deleteOrderHandler(svc *order.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := false
		defer func() { httpx.RecordOrderOperation("delete", ok) }()

		id, idOK := parseID(c)
		if !idOK {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, log, err)
			return
		}
		ok = true
		c.Status(http.StatusNoContent)
	}
}
