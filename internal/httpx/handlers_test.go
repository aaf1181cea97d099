package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/reviews"
)

// ---- fakes ----

type memOrders struct {
	mu    sync.Mutex
	stock map[string]int
	byNum map[string]*orders.Order
	seq   int
}

func (m *memOrders) key(it orders.Item) string { return it.ProductID + "/" + it.Size }

func (m *memOrders) Shortages(_ context.Context, items []inventory.Item) ([]inventory.Shortage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inventory.Shortage
	for _, it := range items {
		if avail := m.stock[it.ProductID+"/"+it.Size]; avail < it.Qty {
			out = append(out, inventory.Shortage{
				ProductID: it.ProductID, Size: it.Size, Requested: it.Qty, Available: avail,
			})
		}
	}
	return out, nil
}

func (m *memOrders) Create(_ context.Context, o *orders.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range o.Items {
		if m.stock[m.key(it)] < it.Qty {
			return errs.New(errs.KindInsufficientStock, "stock changed")
		}
	}
	for _, it := range o.Items {
		m.stock[m.key(it)] -= it.Qty
	}
	m.seq++
	o.OrderNum = fmt.Sprintf("WEB%07d", m.seq)
	o.CreatedAt = time.Now()
	m.byNum[o.OrderNum] = o
	return nil
}

func (m *memOrders) SetStatus(_ context.Context, orderNum string, to orders.Status) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byNum[orderNum]
	if !ok {
		return nil, errs.Newf(errs.KindNotFound, "order %s doesn't exist", orderNum)
	}
	if !orders.CanTransition(o.Status, to) {
		return nil, errs.Newf(errs.KindValidation, "illegal status transition: %s -> %s", o.Status, to)
	}
	o.Status = to
	return o, nil
}

func (m *memOrders) GetStatus(_ context.Context, orderNum string) (orders.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byNum[orderNum]
	if !ok {
		return "", errs.Newf(errs.KindNotFound, "order %s doesn't exist", orderNum)
	}
	return o.Status, nil
}

func (m *memOrders) List(_ context.Context, f orders.Filter) ([]orders.OrderView, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []orders.OrderView{}
	for _, o := range m.byNum {
		out = append(out, orders.OrderView{Order: *o})
	}
	totalPages := 0
	if f.Page > 0 {
		totalPages = orders.TotalPages(len(out))
	}
	return out, totalPages, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]orders.OrderView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []orders.OrderView{}
	for _, o := range m.byNum {
		if o.UserID == userID {
			out = append(out, orders.OrderView{Order: *o})
		}
	}
	return out, nil
}

type fakeSizes struct{ sizes []string }

func (f *fakeSizes) PurchasedSizes(_ context.Context, _, _ string) ([]string, error) {
	return f.sizes, nil
}

type memReviews struct {
	mu      sync.Mutex
	reviews map[string]*reviews.Review
}

func (m *memReviews) Insert(_ context.Context, rv *reviews.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.reviews {
		if !ex.IsDeleted && ex.UserID == rv.UserID && ex.Item == rv.Item {
			return errs.New(errs.KindDuplicateReview, "you already reviewed this product and size")
		}
	}
	cp := *rv
	m.reviews[rv.ID] = &cp
	return nil
}

func (m *memReviews) Get(_ context.Context, id string) (*reviews.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[id]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "review not found")
	}
	cp := *rv
	return &cp, nil
}

func (m *memReviews) Update(_ context.Context, rv *reviews.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[rv.ID]
	if !ok {
		return errs.New(errs.KindNotFound, "review not found")
	}
	stored.Content, stored.Rate, stored.Image = rv.Content, rv.Rate, rv.Image
	return nil
}

func (m *memReviews) MarkDeleted(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rv, ok := m.reviews[id]; ok {
		rv.IsDeleted = true
	}
	return nil
}

func (m *memReviews) ListByProduct(_ context.Context, productID string) ([]reviews.ReviewView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []reviews.ReviewView{}
	for _, rv := range m.reviews {
		if rv.Item.ProductID == productID && !rv.IsDeleted {
			out = append(out, reviews.ReviewView{Review: *rv})
		}
	}
	return out, nil
}

type allEligible struct{}

func (allEligible) EligibleToReview(context.Context, string, string, string) (bool, error) {
	return true, nil
}

// ---- harness ----

func newTestRouter(t *testing.T) (*chi.Mux, *memOrders) {
	t.Helper()
	st := &memOrders{stock: map[string]int{}, byNum: map[string]*orders.Order{}}
	logger := zap.NewNop()

	orderSvc := &orders.Service{Store: st, Stock: st, ServiceName: "test", Log: logger}
	reviewSvc := &reviews.Service{
		Store:     &memReviews{reviews: map[string]*reviews.Review{}},
		Purchases: allEligible{},
		Log:       logger,
	}

	r := NewRouter()
	(&OrdersHandler{Orders: orderSvc, Sizes: &fakeSizes{sizes: []string{"xs", "m"}}, Log: logger}).Register(r)
	(&ReviewsHandler{Reviews: reviewSvc, Log: logger}).Register(r)
	return r, st
}

func do(t *testing.T, r http.Handler, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func orderBody(qty int) map[string]any {
	return map[string]any{
		"shipTo":     map[string]string{"address": "Jl. Sudirman 1", "city": "Jakarta", "zip": "10110"},
		"contact":    map[string]string{"firstName": "Budi", "lastName": "S", "phone": "0812"},
		"totalPrice": 45000,
		"orderList":  []map[string]any{{"productId": "p1", "size": "m", "qty": qty}},
	}
}

// ---- tests ----

func TestCreateOrderEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	st.stock["p1/m"] = 5

	// tanpa identitas dari gateway
	w := do(t, r, http.MethodPost, "/api/order", "", "", orderBody(1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "fail", decode(t, w)["status"])

	w = do(t, r, http.MethodPost, "/api/order", "user-1", "", orderBody(2))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.NotEmpty(t, resp["orderNum"])
	assert.Equal(t, 3, st.stock["p1/m"])

	// stok kurang -> 400, stok tidak berubah
	w = do(t, r, http.MethodPost, "/api/order", "user-1", "", orderBody(10))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp = decode(t, w)
	assert.Equal(t, "fail", resp["status"])
	assert.Contains(t, resp["error"], "available")
	assert.Equal(t, 3, st.stock["p1/m"])
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/order", bytes.NewBufferString("{nope"))
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrders_AdminGate(t *testing.T) {
	r, st := newTestRouter(t)
	st.stock["p1/m"] = 10
	for i := 0; i < 4; i++ {
		w := do(t, r, http.MethodPost, "/api/order", "user-1", "", orderBody(1))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, r, http.MethodGet, "/api/order", "user-1", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/order?page=1", "admin-1", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(2), resp["totalPageNum"]) // 4 order, page size 3

	// tanpa paging tidak ada totalPageNum
	w = do(t, r, http.MethodGet, "/api/order", "admin-1", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, hasTotal := decode(t, w)["totalPageNum"]
	assert.False(t, hasTotal)
}

func TestPurchasedSizesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/order/p1/sizes", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/order/p1/sizes", "user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, []any{"xs", "m"}, resp["data"])
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	st.stock["p1/m"] = 5
	w := do(t, r, http.MethodPost, "/api/order", "user-1", "", orderBody(1))
	require.Equal(t, http.StatusOK, w.Code)
	orderNum := decode(t, w)["orderNum"].(string)

	w = do(t, r, http.MethodPut, "/api/order/"+orderNum, "user-1", "", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPut, "/api/order/NOPE123", "admin-1", "admin", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/api/order/"+orderNum, "admin-1", "admin", map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "shipped", data["status"])

	// langsung terlihat di endpoint status
	w = do(t, r, http.MethodGet, "/api/order/"+orderNum+"/status", "user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shipped", decode(t, w)["status"])
}

func TestReviewEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	body := map[string]any{"size": "m", "content": "bagus", "rate": 5}

	w := do(t, r, http.MethodPost, "/api/review/p1", "user-1", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	review := decode(t, w)["review"].(map[string]any)
	reviewID := review["id"].(string)

	// duplikat utk (user, product, size) yg sama
	w = do(t, r, http.MethodPost, "/api/review/p1", "user-1", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// listing publik, tanpa header identitas
	w = do(t, r, http.MethodGet, "/api/review/p1", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	// bukan penulis
	w = do(t, r, http.MethodPut, "/api/review/"+reviewID, "user-2", "",
		map[string]any{"content": "hijack", "rate": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodDelete, "/api/review/"+reviewID, "user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w)["status"])

	w = do(t, r, http.MethodGet, "/api/review/p1", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["data"])
}
