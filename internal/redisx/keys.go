package redisx

import "time"

const (
	// Cache status order: order_status:{order_num} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Cache ukuran yg pernah dibeli: purchased_sizes:{user_id}:{product_id} -> ["xs","m"]
	KeyPurchasedSizes = "purchased_sizes:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache    = 5 * time.Minute
	TTLPurchasedSizes = 10 * time.Minute
	TTLDedup          = 48 * time.Hour
)
