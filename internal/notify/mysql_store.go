package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// MySQLStore implements Store over the primary connection pool.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

func (st *MySQLStore) ResellerForProduct(ctx context.Context, productID int64) (*int64, error) {
	var resellerID sql.NullInt64
	err := st.DB.QueryRowContext(ctx, `SELECT reseller_id FROM products WHERE id = ?`, productID).Scan(&resellerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !resellerID.Valid {
		return nil, nil
	}
	return &resellerID.Int64, nil
}

func (st *MySQLStore) ListAdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := st.DB.QueryContext(ctx, `SELECT id FROM users WHERE role = ?`, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (st *MySQLStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	var orderID, productID sql.NullInt64
	if n.OrderID != nil {
		orderID = sql.NullInt64{Int64: *n.OrderID, Valid: true}
	}
	if n.ProductID != nil {
		productID = sql.NullInt64{Int64: *n.ProductID, Valid: true}
	}

	query := `
		INSERT INTO notifications
		(user_id, type, title, message, order_id, product_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`

	result, err := st.DB.ExecContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, orderID, productID, time.Now(),
	)
	if err != nil {
		return err
	}
	n.ID, _ = result.LastInsertId()
	return nil
}
