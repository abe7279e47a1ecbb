package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Notification Center Handlers ---
//
// These consume the rows written by the fan-out (internal/notify).
//

// GetMyNotifications is the handler for GET /v1/notifications.
// It retrieves the caller's notifications, unread and newest first.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	// 1. --- Get User ID ---
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	// 2. --- Query Database ---
	// Limit to 50 to keep the notification bell cheap.
	query := `
		SELECT id, user_id, type, title, message, order_id, product_id, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY is_read ASC, created_at DESC
		LIMIT 50`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	// 3. --- Scan Rows into Slice ---
	notifications := []*models.Notification{}
	for rows.Next() {
		var notif models.Notification
		var orderID, productID sql.NullInt64
		var readAt sql.NullTime
		if err := rows.Scan(
			&notif.ID,
			&notif.UserID,
			&notif.Type,
			&notif.Title,
			&notif.Message,
			&orderID,
			&productID,
			&notif.IsRead,
			&readAt,
			&notif.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification row"})
			return
		}
		if orderID.Valid {
			notif.OrderID = &orderID.Int64
		}
		if productID.Valid {
			notif.ProductID = &productID.Int64
		}
		if readAt.Valid {
			notif.ReadAt = &readAt.Time
		}
		notifications = append(notifications, &notif)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating notification rows"})
		return
	}

	// 4. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
	})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	// 1. --- Get IDs ---
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	notificationID := c.Param("id")

	// 2. --- Execute Update ---
	// The user_id predicate stops a user from marking someone else's
	// notifications as read.
	query := `
		UPDATE notifications
		SET is_read = 1, read_at = ?
		WHERE id = ? AND user_id = ?`

	result, err := h.DB.Exec(query, time.Now(), notificationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	// 3. --- Check Rows Affected ---
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found or you do not have permission to update it"})
		return
	}

	// 4. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}
