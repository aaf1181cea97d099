package ordercache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

// Service merawat cache turunan dari lifecycle order: status order utk
// fast path GET, dan invalidasi daftar ukuran terbeli begitu order masuk
// status terminal (delivered/refund) — hak review & "beli lagi" user berubah
// di titik itu.
type Service struct {
	Redis       *redis.Client
	Log         *zap.Logger
	ServiceName string
}

// HandleStatusChanged dipasang sebagai handler consumer.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	} // ignore

	// dedup via redis (pakai event_id); event ulang tidak diproses dua kali
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	skey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderNum)
	_ = s.Redis.Set(ctx, skey,
		kafkax.MustMarshal(map[string]any{"status": p.Status}),
		redisx.TTLStatusCache).Err()

	if !p.Status.Received() {
		return nil
	}
	seen := map[string]bool{}
	for _, it := range p.Items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		key := fmt.Sprintf(redisx.KeyPurchasedSizes, p.UserID, it.ProductID)
		if err := s.Redis.Del(ctx, key).Err(); err != nil {
			s.Log.Warn("purchased sizes invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
	s.Log.Info("order reached terminal status",
		zap.String("order_num", p.OrderNum),
		zap.String("status", string(p.Status)))
	return nil
}
