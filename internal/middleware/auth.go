package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/andrifirman/camilanku-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)

// attachIdentity validates the bearer token and loads the user's role
// from the database, then stores id/email/role on the gin context.
// The role comes from the DB (not the token) so demotions apply
// immediately.
func attachIdentity(c *gin.Context, db *sql.DB, secret []byte, tokenString string) bool {
	userID, email, err := auth.ValidateToken(secret, tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return false
	}

	var role string
	err = db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
		}
		c.Abort()
		return false
	}

	c.Set(CtxUserID, userID)
	c.Set(CtxUserEmail, email)
	c.Set(CtxUserRole, role)
	return true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Auth requires a valid bearer token on the request.
func Auth(db *sql.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer token)"})
			c.Abort()
			return
		}
		if !attachIdentity(c, db, secret, tokenString) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the identity when a bearer token is present
// and lets the request through as a guest when it is not. A token that
// IS present but invalid still fails the request; silently downgrading
// a broken token to "guest" hides client bugs.
func OptionalAuth(db *sql.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if !attachIdentity(c, db, secret, tokenString) {
			return
		}
		c.Next()
	}
}

// AdminOnly must run after Auth. It rejects any requester whose role
// is not admin.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxUserRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context (Auth must run first)"})
			c.Abort()
			return
		}
		if role.(string) != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
