package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NextOrderNumber generates a human-readable order number of the form
// ORD-<unix millis>-<4 random digits>.
//
// Collision-resistant in practice, but not guaranteed unique for two
// calls in the same millisecond drawing the same random suffix; the
// order_number column's unique index is the real backstop. Clients
// retrying a submission should send their previous number back
// (CreateOrderInput.OrderNumber), which takes precedence over a fresh
// draw.
func NextOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), rand.IntN(10000))
}
