package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.ProductStockRepository = (*ProductRepo)(nil)
)

// ProductRepo implementación de ProductRepository y ProductStockRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, category_id, name, description, price, stock, image_url, enabled, created_at, updated_at`

type productRow struct {
	ID          int64           `db:"id"`
	CategoryID  *int64          `db:"category_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	ImageURL    string          `db:"image_url"`
	Enabled     bool            `db:"enabled"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		Enabled:     r.Enabled,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.ImageURL, &p.Enabled, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto y asigna su id.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (category_id, name, description, price, stock, image_url, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.CategoryID, product.Name, product.Description, product.Price, product.Stock,
		product.ImageURL, product.Enabled, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return translate("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (lectura simple, sin bloqueo).
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// LockForUpdate obtiene el producto con SELECT ... FOR UPDATE. La espera queda acotada
// por el lock_timeout de la transacción; al vencer retorna domain.ErrLockTimeout.
func (r *ProductRepo) LockForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := tracer.Start(ctx, "postgres.LockForUpdate")
	defer span.End()

	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, translate("lock product", err)
	}
	return p, nil
}

// SaveStock persiste el stock de un producto bloqueado en la misma transacción.
func (r *ProductRepo) SaveStock(ctx context.Context, id int64, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return translate("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("Product", id)
	}
	return nil
}

// List lista productos ordenados por id con paginación.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	b := psql.Select(productColumns).From("products").OrderBy("id")
	if filter.OnlyEnabled {
		b = b.Where("enabled")
	}
	query, args, err := paged(b, filter.Limit, filter.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// Update actualiza un producto existente. No modifica Stock (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6, enabled = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.CategoryID, product.Name, product.Description, product.Price,
		product.ImageURL, product.Enabled, product.UpdatedAt,
	)
	if err != nil {
		return translate("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// txBeginner lo cumplen pgxpool.Pool y pgx.Tx (en una tx abre un savepoint).
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DeleteOrDisable bloquea la fila con FOR UPDATE y dentro de la misma transacción
// elimina el producto o, si algún detalle de ingreso o venta lo referencia, lo deshabilita.
// Una venta en curso sobre el producto hace esperar al DELETE hasta su commit.
func (r *ProductRepo) DeleteOrDisable(ctx context.Context, id int64) (disabled bool, err error) {
	ctx, span := tracer.Start(ctx, "postgres.DeleteOrDisable")
	defer span.End()

	db, ok := r.q.(txBeginner)
	if !ok {
		return false, fmt.Errorf("delete product: el querier no admite transacciones")
	}
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return translate("lock product", err)
		}

		referenced, err := isReferenced(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			disabled = true
			_, err := tx.Exec(ctx, `UPDATE products SET enabled = false, updated_at = now() WHERE id = $1`, id)
			return translate("disable product", err)
		}
		_, err = tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		return translate("delete product", err)
	})
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return disabled, nil
}

// isReferenced indica si algún ingreso o venta referencia al producto.
func isReferenced(ctx context.Context, q Querier, id int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM ingress_details WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM sale_details WHERE product_id = $1)`
	var referenced bool
	if err := q.QueryRow(ctx, query, id).Scan(&referenced); err != nil {
		return false, fmt.Errorf("product references: %w", err)
	}
	return referenced, nil
}
