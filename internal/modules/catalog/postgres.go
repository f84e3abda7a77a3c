package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	groups, err := json.Marshal(p.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, company_id, name, description, price, discount_price, is_active, groups)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.CompanyID, p.Name, p.Description, p.Price, p.DiscountPrice, p.IsActive, groups)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id,company_id,name,description,price,discount_price,is_active,groups,created_at,updated_at
		FROM products WHERE id=$1`, uid))
}

func (r *postgresRepo) ListCompanyProducts(ctx context.Context, companyID string) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,company_id,name,description,price,discount_price,is_active,groups,created_at,updated_at
		FROM products WHERE company_id=$1 ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) SaveGroups(ctx context.Context, productID string, groups []ComplementGroup) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET groups=$1, updated_at=$2 WHERE id=$3`,
		raw, time.Now(), productID)
	if err != nil {
		return fmt.Errorf("update product groups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanProduct(row *sql.Row) (*Product, error) {
	return scanProductRow(row)
}

func scanProductRow(row rowScanner) (*Product, error) {
	p := &Product{}
	var groups []byte
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
		&p.IsActive, &groups, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &p.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal groups: %w", err)
		}
	}
	return p, nil
}
