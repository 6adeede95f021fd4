package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// movementTables nombres de tablas y columnas que cambian entre ingresos y ventas.
type movementTables struct {
	header       string
	detail       string
	parentFK     string
	partyFK      string
	priceCol     string
	partyJoin    string
	partyName    string
	partyDoc     string
	serialExpr   string
	discountExpr string
}

var tablesByKind = map[entity.MovementKind]movementTables{
	entity.MovementIngress: {
		header:       "ingresses",
		detail:       "ingress_details",
		parentFK:     "ingress_id",
		partyFK:      "provider_id",
		priceCol:     "cost",
		partyJoin:    "providers cp ON cp.id = h.provider_id",
		partyName:    "cp.name",
		partyDoc:     "''",
		serialExpr:   "h.serial_number",
		discountExpr: "0::numeric",
	},
	entity.MovementSale: {
		header:       "sales",
		detail:       "sale_details",
		parentFK:     "sale_id",
		partyFK:      "client_id",
		priceCol:     "sale_price",
		partyJoin:    "clients cp ON cp.id = h.client_id",
		partyName:    "concat_ws(' ', cp.first_name, cp.last_name)",
		partyDoc:     "cp.card_id",
		serialExpr:   "''",
		discountExpr: "d.discount",
	},
}

func tablesFor(kind entity.MovementKind) (movementTables, error) {
	t, ok := tablesByKind[kind]
	if !ok {
		return movementTables{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	return t, nil
}

// MovementRepo persistencia de ingresos y ventas (cabecera + detalles) sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Save inserta cabecera y detalles. Debe llamarse con una tx como Querier para que sea atómico.
func (r *MovementRepo) Save(ctx context.Context, m *entity.Movement) error {
	t, err := tablesFor(m.Kind)
	if err != nil {
		return err
	}

	cols := []string{t.partyFK, "user_id", "occurred_at", "subtotal", "tax", "total"}
	vals := []any{m.CounterpartyID, m.UserID, m.OccurredAt, m.Subtotal, m.Tax, m.Total}
	if m.Kind == entity.MovementIngress {
		cols = append(cols, "serial_number")
		vals = append(vals, m.SerialNumber)
	}
	query, args, err := psql.Insert(t.header).Columns(cols...).Values(vals...).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", t.header, err)
	}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&m.ID); err != nil {
		return translate("insert "+t.header, err)
	}

	for i := range m.Lines {
		l := &m.Lines[i]
		cols := []string{t.parentFK, "product_id", "quantity", t.priceCol, "subtotal"}
		vals := []any{m.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal}
		if m.Kind == entity.MovementSale {
			cols = append(cols, "discount")
			vals = append(vals, l.Discount)
		}
		query, args, err := psql.Insert(t.detail).Columns(cols...).Values(vals...).Suffix("RETURNING id").ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", t.detail, err)
		}
		if err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID); err != nil {
			return translate("insert "+t.detail, err)
		}
	}
	return nil
}

// movementRow fila plana del join cabecera + detalle + resúmenes.
type movementRow struct {
	ID               int64           `db:"id"`
	CounterpartyID   int64           `db:"counterparty_id"`
	CounterpartyName string          `db:"counterparty_name"`
	CounterpartyDoc  string          `db:"counterparty_doc"`
	UserID           int64           `db:"user_id"`
	Username         string          `db:"username"`
	SerialNumber     string          `db:"serial_number"`
	OccurredAt       time.Time       `db:"occurred_at"`
	Subtotal         decimal.Decimal `db:"subtotal"`
	Tax              decimal.Decimal `db:"tax"`
	Total            decimal.Decimal `db:"total"`
	LineID           int64           `db:"line_id"`
	ProductID        int64           `db:"product_id"`
	ProductName      string          `db:"product_name"`
	ProductPrice     decimal.Decimal `db:"product_price"`
	Quantity         int             `db:"quantity"`
	UnitPrice        decimal.Decimal `db:"unit_price"`
	Discount         decimal.Decimal `db:"discount"`
	LineSubtotal     decimal.Decimal `db:"line_subtotal"`
}

func selectMovements(t movementTables) squirrel.SelectBuilder {
	return psql.Select(
		"h.id",
		"h."+t.partyFK+" AS counterparty_id",
		t.partyName+" AS counterparty_name",
		t.partyDoc+" AS counterparty_doc",
		"h.user_id",
		"u.username",
		t.serialExpr+" AS serial_number",
		"h.occurred_at",
		"h.subtotal",
		"h.tax",
		"h.total",
		"d.id AS line_id",
		"d.product_id",
		"p.name AS product_name",
		"p.price AS product_price",
		"d.quantity",
		"d."+t.priceCol+" AS unit_price",
		t.discountExpr+" AS discount",
		"d.subtotal AS line_subtotal",
	).
		From(t.header + " h").
		Join("users u ON u.id = h.user_id").
		Join(t.partyJoin).
		Join(t.detail + " d ON d." + t.parentFK + " = h.id").
		Join("products p ON p.id = d.product_id").
		OrderBy("h.id", "d.id")
}

// FindByID carga un movimiento con detalles y resúmenes en una sola consulta.
func (r *MovementRepo) FindByID(ctx context.Context, kind entity.MovementKind, id int64) (*entity.Movement, error) {
	list, err := r.find(ctx, kind, squirrel.Eq{"h.id": id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// FindAll carga todos los movimientos del tipo con detalles y resúmenes en una sola consulta.
func (r *MovementRepo) FindAll(ctx context.Context, kind entity.MovementKind) ([]*entity.Movement, error) {
	return r.find(ctx, kind, nil)
}

func (r *MovementRepo) find(ctx context.Context, kind entity.MovementKind, where squirrel.Sqlizer) ([]*entity.Movement, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "postgres.FindMovements")
	defer span.End()

	b := selectMovements(t)
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", t.header, err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select %s: %w", t.header, err)
	}
	return groupMovements(kind, rows), nil
}

// groupMovements arma el grafo cabecera → detalles; rows viene ordenado por (h.id, d.id).
func groupMovements(kind entity.MovementKind, rows []movementRow) []*entity.Movement {
	var (
		list []*entity.Movement
		cur  *entity.Movement
	)
	for _, row := range rows {
		if cur == nil || cur.ID != row.ID {
			cur = &entity.Movement{
				ID:             row.ID,
				Kind:           kind,
				CounterpartyID: row.CounterpartyID,
				UserID:         row.UserID,
				SerialNumber:   row.SerialNumber,
				OccurredAt:     row.OccurredAt,
				Subtotal:       row.Subtotal,
				Tax:            row.Tax,
				Total:          row.Total,
				Counterparty:   &entity.PartySummary{ID: row.CounterpartyID, Name: row.CounterpartyName, Document: row.CounterpartyDoc},
				Actor:          &entity.PartySummary{ID: row.UserID, Name: row.Username},
			}
			list = append(list, cur)
		}
		cur.Lines = append(cur.Lines, entity.MovementLine{
			ID:        row.LineID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Discount:  row.Discount,
			Subtotal:  row.LineSubtotal,
			Product:   &entity.ProductSummary{ID: row.ProductID, Name: row.ProductName, Price: row.ProductPrice},
		})
	}
	return list
}
