package handlers

import (
	"database/sql"

	"github.com/andrifirman/camilanku-golang/internal/middleware"
	"github.com/andrifirman/camilanku-golang/internal/orders"
	"github.com/gin-gonic/gin"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB     *sql.DB         // Primary Read/Write connection
	Orders *orders.Service // Order intake + status/tracking pipeline
}

// identityFromContext rebuilds the requester identity set by the auth
// middleware. A guest (no token) yields the zero Identity.
func identityFromContext(c *gin.Context) orders.Identity {
	var id orders.Identity
	if v, ok := c.Get(middleware.CtxUserID); ok {
		id.UserID = v.(int64)
	}
	if v, ok := c.Get(middleware.CtxUserEmail); ok {
		id.Email = v.(string)
	}
	if v, ok := c.Get(middleware.CtxUserRole); ok {
		id.Role = v.(string)
	}
	return id
}
