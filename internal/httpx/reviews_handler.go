package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/auth"
	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
	"github.com/ariefcatur/go-shop-orders.git/internal/reviews"
)

type ReviewsHandler struct {
	Reviews *reviews.Service
	Log     *zap.Logger
}

type createReviewReq struct {
	Size    string `json:"size"`
	Content string `json:"content"`
	Rate    int    `json:"rate"`
	Image   string `json:"image"`
}

type updateReviewReq struct {
	Content string `json:"content"`
	Rate    int    `json:"rate"`
	Image   string `json:"image"`
}

func (h *ReviewsHandler) Register(r *chi.Mux) {
	r.Route("/api/review", func(r chi.Router) {
		r.Post("/{productId}", h.create)
		r.Get("/{productId}", h.list)
		r.Put("/{reviewId}", h.update)
		r.Delete("/{reviewId}", h.delete)
	})
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, h.Log, errs.New(errs.KindValidation, "invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Reviews.Create(ctx, auth.FromContext(r.Context()), reviews.CreateInput{
		ProductID: chi.URLParam(r, "productId"),
		Size:      req.Size,
		Content:   req.Content,
		Rate:      req.Rate,
		Image:     req.Image,
	})
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "review": rv})
}

func (h *ReviewsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	data, err := h.Reviews.ListByProduct(ctx, chi.URLParam(r, "productId"))
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func (h *ReviewsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, h.Log, errs.New(errs.KindValidation, "invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Reviews.Update(ctx, auth.FromContext(r.Context()), chi.URLParam(r, "reviewId"), reviews.UpdateInput{
		Content: req.Content,
		Rate:    req.Rate,
		Image:   req.Image,
	})
	if err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": rv})
}

func (h *ReviewsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, auth.FromContext(r.Context()), chi.URLParam(r, "reviewId")); err != nil {
		writeErr(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
