package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-shop-orders.git/internal/auth"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(withActor)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// withActor membaca identitas yg disuntik auth gateway di depan service ini.
// Request tanpa header = anonim; operasi yg butuh login menolak sendiri.
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := auth.Actor{
			ID:    r.Header.Get("X-User-Id"),
			Admin: strings.EqualFold(r.Header.Get("X-User-Role"), "admin"),
		}
		next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), a)))
	})
}
