package company

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Company) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies
		  (id, name, slug, whatsapp_number, address, delivery_option,
		   fixed_fee, km_rate, minimum_order, payment_methods, is_open)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		c.ID, c.Name, c.Slug, c.WhatsappNumber, c.Address, c.DeliveryOption,
		c.FixedFee, c.KmRate, c.MinimumOrder, pq.Array(c.PaymentMethods), c.IsOpen)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Company, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanCompany(r.db.QueryRowContext(ctx, `
		SELECT id,name,slug,whatsapp_number,address,delivery_option,
		       fixed_fee,km_rate,minimum_order,payment_methods,is_open,created_at,updated_at
		FROM companies WHERE id=$1`, uid))
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	return r.scanCompany(r.db.QueryRowContext(ctx, `
		SELECT id,name,slug,whatsapp_number,address,delivery_option,
		       fixed_fee,km_rate,minimum_order,payment_methods,is_open,created_at,updated_at
		FROM companies WHERE slug=$1`, slug))
}

func (r *postgresRepo) UpdateSettings(ctx context.Context, c *Company) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE companies
		SET name=$1, whatsapp_number=$2, address=$3, delivery_option=$4,
		    fixed_fee=$5, km_rate=$6, minimum_order=$7, payment_methods=$8,
		    is_open=$9, updated_at=$10
		WHERE id=$11`,
		c.Name, c.WhatsappNumber, c.Address, c.DeliveryOption,
		c.FixedFee, c.KmRate, c.MinimumOrder, pq.Array(c.PaymentMethods),
		c.IsOpen, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("update company settings: %w", err)
	}
	return nil
}

func (r *postgresRepo) scanCompany(row *sql.Row) (*Company, error) {
	c := &Company{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.WhatsappNumber, &c.Address, &c.DeliveryOption,
		&c.FixedFee, &c.KmRate, &c.MinimumOrder, pq.Array(&c.PaymentMethods),
		&c.IsOpen, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
