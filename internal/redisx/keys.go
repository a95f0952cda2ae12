package redisx

import "time"

const (
	// Cache order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Cache a catalog page: products:page:{page}:{limit}
	KeyProductPage = "products:page:%d:%d"

	// Dedup event processing in consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Password reset token: pwreset:{token} -> email
	KeyPasswordReset = "pwreset:%s"
)

var (
	TTLStatusCache   = 5 * time.Minute
	TTLProductPage   = 1 * time.Minute
	TTLDedup         = 48 * time.Hour
	TTLPasswordReset = 30 * time.Minute
)
