package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/errs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr: kegagalan bisnis keluar sbg {status: fail, error: msg} dgn kode
// sesuai jenisnya; error non-bisnis (storage dsb) tidak bocor ke klien.
func writeErr(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	msg := err.Error()
	if kind == "" {
		log.Error("request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, statusFor(kind), map[string]string{"status": "fail", "error": msg})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation, errs.KindInsufficientStock:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden, errs.KindNotPurchased:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindDuplicateReview:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
