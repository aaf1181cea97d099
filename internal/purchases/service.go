package purchases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

// Service menurunkan fakta "user pernah menerima barang X" dari order yg
// sudah delivered/refund. Read-only terhadap order store.
type Service struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
	Log   *zap.Logger
}

// PurchasedSizes: ukuran distinct yg pernah diterima user utk satu produk,
// urut sesuai tabel ukuran. Cache redis di-invalidate worker saat ada order
// yg masuk status terminal.
func (s *Service) PurchasedSizes(ctx context.Context, userID, productID string) ([]string, error) {
	key := fmt.Sprintf(redisx.KeyPurchasedSizes, userID, productID)
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil && raw != "" {
			var sizes []string
			if json.Unmarshal([]byte(raw), &sizes) == nil {
				return sizes, nil
			}
		}
	}

	rows, err := s.DB.Query(ctx, `
		SELECT DISTINCT oi.size
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status = ANY($3)`,
		userID, productID, orders.ReceivedStatuses())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sizes := []string{}
	for rows.Next() {
		var size string
		if err := rows.Scan(&size); err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortSizes(sizes)

	if s.Redis != nil {
		b, _ := json.Marshal(sizes)
		if err := s.Redis.Set(ctx, key, b, redisx.TTLPurchasedSizes).Err(); err != nil {
			s.Log.Warn("purchased sizes cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return sizes, nil
}

// EligibleToReview: ada order delivered/refund milik user yg memuat persis
// (product, size). Sengaja tanpa cache: ini gerbang correctness, bukan UX.
func (s *Service) EligibleToReview(ctx context.Context, userID, productID, size string) (bool, error) {
	var ok bool
	err := s.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND oi.size = $3
			  AND o.status = ANY($4))`,
		userID, productID, size, orders.ReceivedStatuses()).Scan(&ok)
	return ok, err
}
