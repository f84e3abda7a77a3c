package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder runs the whole finalize write set in a single transaction:
// number allocation, order insert, coupon usage bump, cart deletion.
// The unique (company_id, number) index backstops the MAX+1 allocation
// under concurrent finalizes.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order, cartID string, cartVersion int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number),0)+1 FROM orders WHERE company_id=$1`,
		o.CompanyID).Scan(&o.Number)
	if err != nil {
		return fmt.Errorf("allocate order number: %w", err)
	}

	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal lines: %w", err)
	}
	client, err := json.Marshal(o.Client)
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}
	var address []byte
	if o.Address != nil {
		if address, err = json.Marshal(o.Address); err != nil {
			return fmt.Errorf("marshal address: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, company_id, number, status, client, delivery_type, address, lines,
		   subtotal, fee_state, fee_amount, discount, total, coupon_code,
		   payment_method, whatsapp_confirmed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,false)`,
		o.ID, o.CompanyID, o.Number, o.Status, client, o.DeliveryType,
		nullableJSON(address), lines, o.Subtotal, o.DeliveryFee.State,
		o.DeliveryFee.Amount, o.Discount, o.Total, o.CouponCode, o.PaymentMethod)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if o.CouponCode != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE coupons SET usage_count=usage_count+1 WHERE company_id=$1 AND code=$2`,
			o.CompanyID, o.CouponCode)
		if err != nil {
			return fmt.Errorf("increment coupon usage: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM carts WHERE id=$1 AND version=$2`, cartID, cartVersion)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The cart moved (or vanished) between the finalize read and here;
		// rolling back keeps the newer cart state alive.
		return cart.ErrStaleCart
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return r.scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByNumber(ctx context.Context, companyID string, number int64) (*Order, error) {
	return r.scanOrder(r.db.QueryRowContext(ctx,
		selectOrder+` WHERE company_id=$1 AND number=$2`, companyID, number))
}

func (r *postgresRepo) ListByCompany(ctx context.Context, companyID string, status string) ([]*Order, error) {
	query := selectOrder + ` WHERE company_id=$1`
	args := []interface{}{companyID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY number DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepo) Confirm(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET whatsapp_confirmed=true, whatsapp_confirmed_at=$1, updated_at=$1
		WHERE id=$2 AND whatsapp_confirmed=false`, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

const selectOrder = `
	SELECT id,company_id,number,status,client,delivery_type,address,lines,
	       subtotal,fee_state,fee_amount,discount,total,coupon_code,
	       payment_method,whatsapp_confirmed,whatsapp_confirmed_at,created_at,updated_at
	FROM orders`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanOrder(row *sql.Row) (*Order, error) {
	o, err := scanOrderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func scanOrderRow(row rowScanner) (*Order, error) {
	o := &Order{}
	var client, address, lines []byte
	var confirmedAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Number, &o.Status, &client, &o.DeliveryType, &address, &lines,
		&o.Subtotal, &o.DeliveryFee.State, &o.DeliveryFee.Amount, &o.Discount, &o.Total,
		&o.CouponCode, &o.PaymentMethod, &o.WhatsappConfirmed, &confirmedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(client, &o.Client); err != nil {
		return nil, fmt.Errorf("unmarshal client: %w", err)
	}
	if len(address) > 0 {
		o.Address = &cart.Address{}
		if err := json.Unmarshal(address, o.Address); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &o.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal lines: %w", err)
		}
	}
	if confirmedAt.Valid {
		o.WhatsappConfirmedAt = &confirmedAt.Time
	}
	return o, nil
}

func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
