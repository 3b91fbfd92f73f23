package ports

import (
	"github.com/jcmexdev/shop-orders/internal/pkg/cache"
)

// IdempotencyStore remembers the order id produced for an idempotency key.
// Get returns "" for an unknown key.
type IdempotencyStore = cache.Cache
