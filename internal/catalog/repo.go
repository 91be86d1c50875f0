package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, sku, name, description, image, source_url, stock, price, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Image, &p.SourceURL, &p.Stock, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) ListForExport(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return r.ListProducts(ctx)
	}
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY sku`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	if err := Validate(p); err != nil {
		return Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products(id, sku, name, description, image, source_url, stock, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productColumns,
		p.ID, p.SKU, p.Name, p.Description, p.Image, p.SourceURL, p.Stock, p.Price))
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertAll writes an import batch in one transaction keyed by sku, so a
// replayed file updates instead of duplicating.
func (r *Repo) UpsertAll(ctx context.Context, batch []Product) (int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, p := range batch {
		if err := Validate(p); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO products(id, sku, name, description, image, source_url, stock, price)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (sku) DO UPDATE SET
				name=EXCLUDED.name, description=EXCLUDED.description, image=EXCLUDED.image,
				source_url=EXCLUDED.source_url, stock=EXCLUDED.stock, price=EXCLUDED.price, updated_at=now()`,
			p.ID, p.SKU, p.Name, p.Description, p.Image, p.SourceURL, p.Stock, p.Price); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(batch), nil
}
