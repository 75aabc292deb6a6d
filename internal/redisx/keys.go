package redisx

import "time"

const (
	// Order status cache: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%d"

	// Product price cache: price:{product_id} -> decimal string
	KeyPrice = "price:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLPriceCache  = 10 * time.Minute
	TTLDedup       = 48 * time.Hour
)
