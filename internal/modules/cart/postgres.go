package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Cart) error {
	lines, client, address, applied, err := marshalCartColumns(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO carts
		  (id, company_id, version, client, lines, delivery_type, address, coupon,
		   subtotal, fee_state, fee_amount, discount, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.CompanyID, c.Version, client, lines, c.DeliveryType, address, applied,
		c.Subtotal, c.DeliveryFee.State, c.DeliveryFee.Amount, c.Discount, c.Total)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*Cart, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCartNotFound
	}

	c := &Cart{}
	var lines, client, address, applied []byte
	err = r.db.QueryRowContext(ctx, `
		SELECT id,company_id,version,client,lines,delivery_type,address,coupon,
		       subtotal,fee_state,fee_amount,discount,total,created_at,updated_at
		FROM carts WHERE id=$1`, uid).Scan(
		&c.ID, &c.CompanyID, &c.Version, &client, &lines, &c.DeliveryType, &address, &applied,
		&c.Subtotal, &c.DeliveryFee.State, &c.DeliveryFee.Amount, &c.Discount, &c.Total,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalCartColumns(c, lines, client, address, applied); err != nil {
		return nil, err
	}
	return c, nil
}

// Update writes the cart only if nobody else has written it since the
// caller's read, bumping the version on success.
func (r *postgresRepo) Update(ctx context.Context, c *Cart, expectedVersion int64) error {
	lines, client, address, applied, err := marshalCartColumns(c)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET version=version+1, client=$1, lines=$2, delivery_type=$3, address=$4, coupon=$5,
		    subtotal=$6, fee_state=$7, fee_amount=$8, discount=$9, total=$10, updated_at=$11
		WHERE id=$12 AND version=$13`,
		client, lines, c.DeliveryType, address, applied,
		c.Subtotal, c.DeliveryFee.State, c.DeliveryFee.Amount, c.Discount, c.Total,
		time.Now(), c.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM carts WHERE id=$1)`, c.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrStaleCart
		}
		return ErrCartNotFound
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *postgresRepo) GetCoupon(ctx context.Context, companyID, code string) (*coupon.Coupon, error) {
	cp := &coupon.Coupon{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,company_id,code,discount_type,discount_value,min_order_value,
		       usage_limit,usage_count,valid_from,valid_until,is_active,created_at,updated_at
		FROM coupons WHERE company_id=$1 AND code=$2`,
		companyID, coupon.NormalizeCode(code)).Scan(
		&cp.ID, &cp.CompanyID, &cp.Code, &cp.DiscountType, &cp.DiscountValue, &cp.MinOrderValue,
		&cp.UsageLimit, &cp.UsageCount, &cp.ValidFrom, &cp.ValidUntil, &cp.IsActive,
		&cp.CreatedAt, &cp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coupon.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func marshalCartColumns(c *Cart) (lines, client, address, applied []byte, err error) {
	if lines, err = json.Marshal(c.Lines); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal lines: %w", err)
	}
	if client, err = json.Marshal(c.Client); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal client: %w", err)
	}
	if c.Address != nil {
		if address, err = json.Marshal(c.Address); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal address: %w", err)
		}
	}
	if c.Coupon != nil {
		if applied, err = json.Marshal(c.Coupon); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("marshal coupon: %w", err)
		}
	}
	return lines, client, nullableJSON(address), nullableJSON(applied), nil
}

func unmarshalCartColumns(c *Cart, lines, client, address, applied []byte) error {
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &c.Lines); err != nil {
			return fmt.Errorf("unmarshal lines: %w", err)
		}
	}
	if len(client) > 0 {
		if err := json.Unmarshal(client, &c.Client); err != nil {
			return fmt.Errorf("unmarshal client: %w", err)
		}
	}
	if len(address) > 0 {
		c.Address = &Address{}
		if err := json.Unmarshal(address, c.Address); err != nil {
			return fmt.Errorf("unmarshal address: %w", err)
		}
	}
	if len(applied) > 0 {
		c.Coupon = &coupon.Applied{}
		if err := json.Unmarshal(applied, c.Coupon); err != nil {
			return fmt.Errorf("unmarshal coupon: %w", err)
		}
	}
	return nil
}

func nullableJSON(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
