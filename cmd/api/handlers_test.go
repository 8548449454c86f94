package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lit "litorders/internal/literature"
	ord "litorders/internal/order"
)

//
// ---------- STUBS ----------
//

// stubOrderRepo implements ord.Repository in memory, snapshotting
// prices from a fixed catalog like the pg repo does in its transaction.
type stubOrderRepo struct {
	prices map[int64]int64
	orders map[int64]*ord.Order
	nextID int64
}

func newStubOrderRepo(prices map[int64]int64) *stubOrderRepo {
	return &stubOrderRepo{prices: prices, orders: map[int64]*ord.Order{}}
}

func (s *stubOrderRepo) Create(_ context.Context, o *ord.Order, items []ord.ItemInput) (*ord.Order, error) {
	for _, it := range items {
		if _, ok := s.prices[it.LiteratureID]; !ok {
			return nil, ord.ErrLiteratureNotFound
		}
	}
	s.nextID++
	now := time.Now()
	cp := *o
	cp.ID = s.nextID
	cp.Status = ord.StatusNew
	if cp.Priority == "" {
		cp.Priority = ord.PriorityMedium
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.Items = []ord.Item{}
	for i, it := range items {
		cp.Items = append(cp.Items, ord.Item{
			ID:           int64(i + 1),
			OrderID:      cp.ID,
			LiteratureID: it.LiteratureID,
			Quantity:     it.Quantity,
			Price:        s.prices[it.LiteratureID],
			CreatedAt:    now,
			Literature:   lit.Literature{ID: it.LiteratureID, Price: s.prices[it.LiteratureID]},
		})
	}
	s.orders[cp.ID] = &cp
	return &cp, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int64) (*ord.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) List(_ context.Context, f ord.ListFilter) ([]ord.Order, error) {
	out := []ord.Order{}
	for _, o := range s.orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.CreatedBy != nil && o.CreatedBy != *f.CreatedBy {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderRepo) Update(_ context.Context, id int64, p ord.UpdatePatch) (*ord.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.DescriptionSet {
		o.Description = p.Description
	}
	if p.UnitSet {
		o.Unit = p.Unit
	}
	if p.QuantitySet {
		o.Quantity = p.Quantity
	}
	if p.Priority != nil {
		o.Priority = *p.Priority
	}
	return o, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id int64, st ord.Status) (*ord.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	o.Status = st
	return o, nil
}

func (s *stubOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return ord.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// stubLitRepo implements lit.Repository in memory. When linked to an
// order store it mirrors the pg repo's reimport: line items are wiped
// before the catalog is swapped, orders themselves are kept.
type stubLitRepo struct {
	items  []lit.Literature
	orders *stubOrderRepo
}

func (s *stubLitRepo) List(context.Context) ([]lit.Literature, error) { return s.items, nil }
func (s *stubLitRepo) ReplaceAll(_ context.Context, items []lit.Literature) error {
	if s.orders != nil {
		for _, o := range s.orders.orders {
			o.Items = []ord.Item{}
		}
	}
	s.items = items
	return nil
}

func newTestRouter(repo *stubOrderRepo, litRepo lit.Repository) *gin.Engine {
	logger := zap.NewNop()
	svc := ord.NewService(repo, logger)
	return newRouter(logger, litRepo, svc)
}

func doJSON(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestHealth(t *testing.T) {
	t.Parallel()
	r := newTestRouter(newStubOrderRepo(nil), &stubLitRepo{})

	w := doJSON(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	r := newTestRouter(newStubOrderRepo(nil), &stubLitRepo{})

	w := doJSON(r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"error":"Not found"}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestListLiterature(t *testing.T) {
	t.Parallel()
	litRepo := &stubLitRepo{items: []lit.Literature{
		{ID: 1, Type: "Books", Title: "A", Price: 150, SortOrder: 1},
		{ID: 2, Type: "Tracts", Title: "B", Price: 0, SortOrder: 2},
	}}
	r := newTestRouter(newStubOrderRepo(nil), litRepo)

	w := doJSON(r, http.MethodGet, "/api/literature", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var items []lit.Literature
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(items) != 2 || items[0].SortOrder != 1 {
		t.Fatalf("items=%+v", items)
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(map[int64]int64{1: 150, 2: 75})
	r := newTestRouter(repo, &stubLitRepo{})

	body := `{"title":"September order","createdBy":"Group North","items":[{"literatureId":1,"quantity":2},{"literatureId":2,"quantity":3}]}`
	w := doJSON(r, http.MethodPost, "/api/orders", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var out ord.OrderDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("items len=%d", len(out.Items))
	}
	if out.Items[0].LineTotal != 300 || out.Items[1].LineTotal != 225 {
		t.Fatalf("line totals=%d,%d", out.Items[0].LineTotal, out.Items[1].LineTotal)
	}
	if out.TotalAmount != 525 {
		t.Fatalf("totalAmount=%d", out.TotalAmount)
	}
	if out.Status != ord.StatusNew {
		t.Fatalf("status=%s", out.Status)
	}
}

func TestCreateOrder_UnknownLiterature(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(map[int64]int64{1: 150})
	r := newTestRouter(repo, &stubLitRepo{})

	body := `{"title":"Order","createdBy":"Group","items":[{"literatureId":1,"quantity":2},{"literatureId":999999,"quantity":1}]}`
	w := doJSON(r, http.MethodPost, "/api/orders", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (want 400, not 404: the request is malformed)", w.Code, w.Body.String())
	}
	if len(repo.orders) != 0 {
		t.Fatalf("order was created despite unknown literature id")
	}

	// subsequent listing shows no new order
	w = doJSON(r, http.MethodGet, "/api/orders", "")
	if w.Body.String() != `[]` {
		t.Fatalf("listing=%s", w.Body.String())
	}
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	t.Parallel()
	r := newTestRouter(newStubOrderRepo(map[int64]int64{1: 150}), &stubLitRepo{})

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"createdBy":"Group"}`, "title must be between 1 and 100 characters"},
		{"missing createdBy", `{"title":"Order"}`, "createdBy must be between 1 and 100 characters"},
		{"duplicate item", `{"title":"Order","createdBy":"Group","items":[{"literatureId":1,"quantity":1},{"literatureId":1,"quantity":2}]}`, "Duplicate literatureId in items payload"},
		{"bad priority", `{"title":"Order","createdBy":"Group","priority":"urgent"}`, "priority must be one of: low, medium, high"},
	}
	for _, tc := range cases {
		w := doJSON(r, http.MethodPost, "/api/orders", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", tc.name, w.Code, w.Body.String())
		}
		var resp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Error != tc.want {
			t.Fatalf("%s: error=%q want %q", tc.name, resp.Error, tc.want)
		}
	}
}

func TestGetOrder(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(map[int64]int64{1: 150})
	r := newTestRouter(repo, &stubLitRepo{})

	w := doJSON(r, http.MethodPost, "/api/orders", `{"title":"Order","createdBy":"Group","items":[{"literatureId":1,"quantity":4}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/orders/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out ord.OrderDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.TotalAmount != 600 {
		t.Fatalf("totalAmount=%d", out.TotalAmount)
	}

	w = doJSON(r, http.MethodGet, "/api/orders/42", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/orders/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListOrders_Filters(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(nil)
	r := newTestRouter(repo, &stubLitRepo{})

	doJSON(r, http.MethodPost, "/api/orders", `{"title":"A","createdBy":"Group North"}`)
	doJSON(r, http.MethodPost, "/api/orders", `{"title":"B","createdBy":"Group South"}`)
	doJSON(r, http.MethodPut, "/api/orders/1/status", `{"status":"closed"}`)

	w := doJSON(r, http.MethodGet, "/api/orders?status=new", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out []ord.OrderDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 1 || out[0].Title != "B" {
		t.Fatalf("filtered=%+v", out)
	}

	// multi-valued filter is invalid
	w = doJSON(r, http.MethodGet, "/api/orders?status=new&status=done", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"error":"status must be a single value"}` {
		t.Fatalf("body=%s", w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/orders?createdBy=a&createdBy=b", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/orders?status=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestUpdateOrder(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(nil)
	r := newTestRouter(repo, &stubLitRepo{})

	doJSON(r, http.MethodPost, "/api/orders", `{"title":"Order","createdBy":"Group","description":"text"}`)

	w := doJSON(r, http.MethodPut, "/api/orders/1", `{"title":"Renamed","description":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out ord.OrderDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Title != "Renamed" || out.Description != nil {
		t.Fatalf("out=%+v", out)
	}

	w = doJSON(r, http.MethodPut, "/api/orders/1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/api/orders/42", `{"title":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(nil)
	r := newTestRouter(repo, &stubLitRepo{})

	doJSON(r, http.MethodPost, "/api/orders", `{"title":"Order","createdBy":"Group"}`)

	w := doJSON(r, http.MethodPut, "/api/orders/1/status", `{"status":"in_progress"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	// skipping in_progress -> new is not in the table
	w = doJSON(r, http.MethodPut, "/api/orders/1/status", `{"status":"new"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"error":"Cannot transition status from in_progress to new"}` {
		t.Fatalf("body=%s", w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/api/orders/42/status", `{"status":"closed"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/api/orders/1/status", `{"status":"shipped"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCatalogReimport_OrdersSurviveWithoutItems(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(map[int64]int64{1: 150})
	litRepo := &stubLitRepo{
		items:  []lit.Literature{{ID: 1, Type: "Books", Title: "Old", Price: 150, SortOrder: 1}},
		orders: repo,
	}
	r := newTestRouter(repo, litRepo)

	w := doJSON(r, http.MethodPost, "/api/orders", `{"title":"Order","createdBy":"Group","items":[{"literatureId":1,"quantity":2}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}

	// reimport: destructive on line items, the order rows stay
	newCatalog := []lit.Literature{{ID: 2, Type: "Tracts", Title: "New", Price: 50, SortOrder: 1}}
	if err := litRepo.ReplaceAll(context.Background(), newCatalog); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	w = doJSON(r, http.MethodGet, "/api/orders/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("order did not survive the reimport: status=%d body=%s", w.Code, w.Body.String())
	}
	var out ord.OrderDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("items survived the reimport: %+v", out.Items)
	}
	if out.TotalAmount != 0 {
		t.Fatalf("totalAmount=%d", out.TotalAmount)
	}

	w = doJSON(r, http.MethodGet, "/api/literature", "")
	var items []lit.Literature
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(items) != 1 || items[0].Title != "New" {
		t.Fatalf("catalog=%+v", items)
	}
}

func TestDeleteOrder(t *testing.T) {
	t.Parallel()
	repo := newStubOrderRepo(nil)
	r := newTestRouter(repo, &stubLitRepo{})

	doJSON(r, http.MethodPost, "/api/orders", `{"title":"Order","createdBy":"Group"}`)

	w := doJSON(r, http.MethodDelete, "/api/orders/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/api/orders/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/api/orders", "")
	if w.Body.String() != `[]` {
		t.Fatalf("listing=%s", w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
