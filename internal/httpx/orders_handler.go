package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/auth"
	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

type SizesProvider interface {
	PurchasedSizes(ctx context.Context, userID, productID string) ([]string, error)
}

type OrdersHandler struct {
	Orders *orders.Service
	Sizes  SizesProvider
	Redis  *redis.Client
	Log    *zap.Logger
}

type createOrderReq struct {
	ShipTo     orders.ShipTo   `json:"shipTo"`
	Contact    orders.Contact  `json:"contact"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderList  []orders.Item   `json:"orderList"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/order", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/me", h.listMine)
		r.Get("/{productId}/sizes", h.purchasedSizes)
		r.Get("/{orderNum}/status", h.status)
		r.Put("/{orderNum}", h.updateStatus)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, h.Log, errs.New(errs.KindValidation, "invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderNum, err := h.Orders.Place(ctx, auth.FromContext(r.Context()), orders.PlaceInput{
		ShipTo:     req.ShipTo,
		Contact:    req.Contact,
		TotalPrice: req.TotalPrice,
		Items:      req.OrderList,
	})
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "orderNum": orderNum})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeErr(w, h.Log, errs.New(errs.KindValidation, "invalid page"))
			return
		}
		page = n
	}
	f := orders.Filter{OrderNum: r.URL.Query().Get("orderNum"), Page: page}

	data, totalPages, err := h.Orders.List(ctx, auth.FromContext(r.Context()), f)
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	resp := map[string]any{"status": "success", "data": data}
	if page > 0 {
		resp["totalPageNum"] = totalPages
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	data, err := h.Orders.ListMine(ctx, auth.FromContext(r.Context()))
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func (h *OrdersHandler) purchasedSizes(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())
	if !actor.Authenticated() {
		writeErr(w, h.Log, errs.New(errs.KindUnauthorized, "login required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sizes, err := h.Sizes.PurchasedSizes(ctx, actor.ID, chi.URLParam(r, "productId"))
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": sizes})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, h.Log, errs.New(errs.KindValidation, "invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, auth.FromContext(r.Context()), chi.URLParam(r, "orderNum"), req.Status)
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": o})
}

// status: fast path lewat cache yg dirawat worker, fallback ke store.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())
	if !actor.Authenticated() {
		writeErr(w, h.Log, errs.New(errs.KindUnauthorized, "login required"))
		return
	}
	orderNum := chi.URLParam(r, "orderNum")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderNum)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	st, err := h.Orders.Status(ctx, actor, orderNum)
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	body := map[string]any{"status": st}
	if h.Redis != nil {
		b, _ := json.Marshal(body)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, body)
}
