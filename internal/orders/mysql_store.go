package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/models"
)

// MySQLStore implements OrderStore and ProductStore over the primary
// connection pool.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

const orderColumns = `id, order_number, user_id, email, name, phone, address, city, province,
		postal_code, payment_method, subtotal, discount, delivery_fee, total, status, metadata, created_at`

func (st *MySQLStore) InsertOrder(ctx context.Context, o *models.Order) (int64, error) {
	metaJSON, err := json.Marshal(o.Meta)
	if err != nil {
		return 0, fmt.Errorf("marshal order metadata: %w", err)
	}

	var userID sql.NullInt64
	if o.UserID != nil {
		userID = sql.NullInt64{Int64: *o.UserID, Valid: true}
	}

	query := `
		INSERT INTO orders
		(order_number, user_id, email, name, phone, address, city, province, postal_code,
		 payment_method, subtotal, discount, delivery_fee, total, status, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := st.DB.ExecContext(ctx, query,
		o.OrderNumber, userID, o.Email, o.Name, o.Phone, o.Address, o.City, o.Province, o.PostalCode,
		o.PaymentMethod, o.Subtotal, o.Discount, o.DeliveryFee, o.Total, o.Status, metaJSON, o.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (st *MySQLStore) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	optionsJSON, err := json.Marshal(item.Options)
	if err != nil {
		return fmt.Errorf("marshal item options: %w", err)
	}

	var productID sql.NullInt64
	if item.ProductID != nil {
		productID = sql.NullInt64{Int64: *item.ProductID, Valid: true}
	}

	query := `
		INSERT INTO order_items
		(order_id, product_id, name, unit_price, quantity, total_price, selected_options, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := st.DB.ExecContext(ctx, query,
		item.OrderID, productID, item.Name, item.UnitPrice, item.Quantity, item.TotalPrice,
		optionsJSON, time.Now(),
	)
	if err != nil {
		return err
	}
	item.ID, _ = result.LastInsertId()
	return nil
}

func (st *MySQLStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	row := st.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (st *MySQLStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := st.DB.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// The driver counts CHANGED rows, not matched rows, so callers
		// must not re-submit an order's current status here. GetOrder
		// ran first in normal flow, so zero rows is a race with a
		// delete; surface it the same way.
		return ErrNotFound
	}
	return nil
}

func (st *MySQLStore) UpdateMeta(ctx context.Context, id int64, meta models.OrderMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal order metadata: %w", err)
	}
	_, err = st.DB.ExecContext(ctx, `UPDATE orders SET metadata = ? WHERE id = ?`, metaJSON, id)
	return err
}

func (st *MySQLStore) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, unit_price, quantity, total_price, selected_options, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC`

	rows, err := st.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var productID sql.NullInt64
		var optionsJSON []byte
		if err := rows.Scan(
			&item.ID, &item.OrderID, &productID, &item.Name, &item.UnitPrice,
			&item.Quantity, &item.TotalPrice, &optionsJSON, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &item.Options); err != nil {
				return nil, fmt.Errorf("unmarshal item options for item %d: %w", item.ID, err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (st *MySQLStore) ListByCustomer(ctx context.Context, userID int64, email, status string, limit, offset int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE (user_id = ? OR email = ?)`
	args := []interface{}{userID, email}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return st.queryOrders(ctx, query, args...)
}

func (st *MySQLStore) ListAll(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return st.queryOrders(ctx, query, args...)
}

func (st *MySQLStore) ListTrackable(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.tracking.tracking_number')) IS NOT NULL
		  AND JSON_UNQUOTE(JSON_EXTRACT(metadata, '$.tracking.tracking_number')) <> ''
		  AND status NOT IN (?, ?)
		ORDER BY id ASC`

	return st.queryOrders(ctx, query, models.StatusSelesai, models.StatusGagal)
}

func (st *MySQLStore) queryOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := st.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var userID sql.NullInt64
	var metaJSON []byte
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &userID, &o.Email, &o.Name, &o.Phone, &o.Address, &o.City, &o.Province,
		&o.PostalCode, &o.PaymentMethod, &o.Subtotal, &o.Discount, &o.DeliveryFee, &o.Total, &o.Status,
		&metaJSON, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if userID.Valid {
		o.UserID = &userID.Int64
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &o.Meta); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for order %d: %w", o.ID, err)
		}
	}
	return &o, nil
}

//
// --- ProductStore ---
//

func (st *MySQLStore) GetPurchaseInfo(ctx context.Context, productID int64) (*PurchaseInfo, error) {
	var info PurchaseInfo
	var resellerID sql.NullInt64
	query := `SELECT id, reseller_id, name, stock, review_count FROM products WHERE id = ?`
	err := st.DB.QueryRowContext(ctx, query, productID).Scan(
		&info.ProductID, &resellerID, &info.Name, &info.Stock, &info.ReviewCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resellerID.Valid {
		info.ResellerID = &resellerID.Int64
	}
	return &info, nil
}

func (st *MySQLStore) UpdatePurchaseCounters(ctx context.Context, productID int64, stock int, inStock bool, reviewCount int) error {
	query := `UPDATE products SET stock = ?, in_stock = ?, review_count = ?, updated_at = ? WHERE id = ?`
	_, err := st.DB.ExecContext(ctx, query, stock, inStock, reviewCount, time.Now(), productID)
	return err
}
