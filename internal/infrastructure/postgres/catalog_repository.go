package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var (
	_ repository.ProviderRepository = (*ProviderRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
)

// ProviderRepo persistencia de proveedores sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

// GetByID obtiene un proveedor por ID.
func (r *ProviderRepo) GetByID(ctx context.Context, id int64) (*entity.Provider, error) {
	var p entity.Provider
	err := r.q.QueryRow(ctx, `SELECT id, name, address, enabled FROM providers WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Address, &p.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return &p, nil
}

// Create inserta un proveedor y asigna su id.
func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO providers (name, address, enabled) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.Address, p.Enabled,
	).Scan(&p.ID)
	if err != nil {
		return translate("insert provider", err)
	}
	return nil
}

// List lista proveedores ordenados por id.
func (r *ProviderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Provider, error) {
	query, args, err := paged(psql.Select("id", "name", "address", "enabled").From("providers").OrderBy("id"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list providers: %w", err)
	}
	var list []*entity.Provider
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return list, nil
}

const clientColumns = `id, first_name, last_name, card_id, phone_number, email, address`

type clientRow struct {
	ID          int64  `db:"id"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	CardID      string `db:"card_id"`
	PhoneNumber string `db:"phone_number"`
	Email       string `db:"email"`
	Address     string `db:"address"`
}

// ClientRepo persistencia de clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByCardID obtiene un cliente por documento de identidad.
func (r *ClientRepo) GetByCardID(ctx context.Context, cardID string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE card_id = $1`
	return r.getOne(ctx, query, cardID)
}

func (r *ClientRepo) getOne(ctx context.Context, query string, arg any) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.CardID, &c.PhoneNumber, &c.Email, &c.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// List lista clientes ordenados por id.
func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	query, args, err := paged(psql.Select(clientColumns).From("clients").OrderBy("id"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}
	var rows []clientRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	list := make([]*entity.Client, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.Client{
			ID: row.ID, FirstName: row.FirstName, LastName: row.LastName, CardID: row.CardID,
			PhoneNumber: row.PhoneNumber, Email: row.Email, Address: row.Address,
		})
	}
	return list, nil
}

// Create inserta un cliente y asigna su id. Un card_id repetido retorna domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (first_name, last_name, card_id, phone_number, email, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.FirstName, c.LastName, c.CardID, c.PhoneNumber, c.Email, c.Address,
	).Scan(&c.ID)
	if err != nil {
		return translate("insert client", err)
	}
	return nil
}
