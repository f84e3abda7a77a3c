package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Coupon) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coupons
		  (id, company_id, code, discount_type, discount_value, min_order_value,
		   usage_limit, usage_count, valid_from, valid_until, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.CompanyID, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderValue,
		c.UsageLimit, c.UsageCount, c.ValidFrom, c.ValidUntil, c.IsActive)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("coupon code %s already exists", c.Code)
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, c *Coupon) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET discount_type=$1, discount_value=$2, min_order_value=$3, usage_limit=$4,
		    valid_from=$5, valid_until=$6, is_active=$7, updated_at=$8
		WHERE id=$9`,
		c.DiscountType, c.DiscountValue, c.MinOrderValue, c.UsageLimit,
		c.ValidFrom, c.ValidUntil, c.IsActive, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, companyID, code string) (*Coupon, error) {
	c := &Coupon{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,company_id,code,discount_type,discount_value,min_order_value,
		       usage_limit,usage_count,valid_from,valid_until,is_active,created_at,updated_at
		FROM coupons WHERE company_id=$1 AND code=$2`, companyID, NormalizeCode(code)).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue,
		&c.UsageLimit, &c.UsageCount, &c.ValidFrom, &c.ValidUntil, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListByCompany(ctx context.Context, companyID string) ([]*Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,company_id,code,discount_type,discount_value,min_order_value,
		       usage_limit,usage_count,valid_from,valid_until,is_active,created_at,updated_at
		FROM coupons WHERE company_id=$1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*Coupon
	for rows.Next() {
		c := &Coupon{}
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue,
			&c.UsageLimit, &c.UsageCount, &c.ValidFrom, &c.ValidUntil, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}
