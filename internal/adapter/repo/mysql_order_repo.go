package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

const orderCols = `id,customer_id,items_json,total_cents,street,city,zip,phone,status,delivery_partner,created_at,updated_at`

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders (`+orderCols+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
`, o.ID, o.CustomerID, string(items), o.TotalCents,
		o.Address.Street, o.Address.City, o.Address.Zip, o.Address.Phone,
		string(o.Status), o.DeliveryPartner, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+orderCols+` FROM orders WHERE id=?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *MySQLOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLOrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderCols+` FROM orders
WHERE customer_id=? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *MySQLOrderRepo) ListForRider(ctx context.Context, riderID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderCols+` FROM orders
WHERE delivery_partner=? OR (status=? AND delivery_partner='')
ORDER BY created_at DESC`, riderID, string(domain.StatusPrepared))
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]usecase.AdminOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.id,o.customer_id,o.items_json,o.total_cents,o.street,o.city,o.zip,o.phone,
       o.status,o.delivery_partner,o.created_at,o.updated_at,
       COALESCE(u.name,''),COALESCE(u.email,'')
FROM orders o LEFT JOIN users u ON u.id = o.customer_id
ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.AdminOrder
	for rows.Next() {
		var (
			ao    usecase.AdminOrder
			items string
		)
		if err := rows.Scan(&ao.ID, &ao.CustomerID, &items, &ao.TotalCents,
			&ao.Address.Street, &ao.Address.City, &ao.Address.Zip, &ao.Address.Phone,
			&ao.Status, &ao.DeliveryPartner, &ao.CreatedAt, &ao.UpdatedAt,
			&ao.CustomerName, &ao.CustomerEmail); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &ao.Items); err != nil {
			return nil, err
		}
		out = append(out, ao)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) ListUnclaimedPrepared(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderCols+` FROM orders
WHERE status=? AND delivery_partner='' ORDER BY created_at DESC`,
		string(domain.StatusPrepared))
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *MySQLOrderRepo) ListKitchenQueue(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderCols+` FROM orders
WHERE status IN (?,?,?) ORDER BY created_at ASC`,
		string(domain.StatusProcessing), string(domain.StatusPreparing), string(domain.StatusPrepared))
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// UpdateStatusIf is the conditional write everything rides on: the row only
// moves when it still matches the status the caller saw.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 -> nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

func (r *MySQLOrderRepo) ClaimForDelivery(ctx context.Context, id, riderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, delivery_partner = ?, updated_at = NOW()
        WHERE id = ? AND status = ? AND (delivery_partner = '' OR delivery_partner = ?)`,
		string(domain.StatusOutForDelivery), riderID, id, string(domain.StatusPrepared), riderID,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLOrderRepo) CancelStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE status = ? AND created_at < ?`,
		string(domain.StatusCancelled), string(domain.StatusProcessing), cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o     domain.Order
		items string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &items, &o.TotalCents,
		&o.Address.Street, &o.Address.City, &o.Address.Zip, &o.Address.Phone,
		&o.Status, &o.DeliveryPartner, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
