package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

func TestGroupMovements_AgrupaDetallesPorCabecera(t *testing.T) {
	rows := []movementRow{
		{ID: 1, CounterpartyID: 7, CounterpartyName: "John Doe", CounterpartyDoc: "445566", UserID: 3, Username: "seller",
			Total: decimal.NewFromInt(118), LineID: 10, ProductID: 100, ProductName: "Laptop", Quantity: 1},
		{ID: 1, CounterpartyID: 7, UserID: 3, LineID: 11, ProductID: 101, ProductName: "Mouse", Quantity: 2},
		{ID: 2, CounterpartyID: 8, CounterpartyName: "Ana Ruiz", UserID: 3, Username: "seller", LineID: 12, ProductID: 100, Quantity: 5},
	}

	list := groupMovements(entity.MovementSale, rows)

	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, entity.MovementSale, list[0].Kind)
	require.Len(t, list[0].Lines, 2)
	assert.Equal(t, "Mouse", list[0].Lines[1].Product.Name)
	assert.Equal(t, "John Doe", list[0].Counterparty.Name)
	assert.Equal(t, "445566", list[0].Counterparty.Document)
	assert.Equal(t, "seller", list[0].Actor.Name)
	require.Len(t, list[1].Lines, 1)
	assert.Equal(t, 5, list[1].Lines[0].Quantity)
}

func TestGroupMovements_SinFilas(t *testing.T) {
	assert.Empty(t, groupMovements(entity.MovementIngress, nil))
}

func TestSelectMovements_UnaConsultaConJoins(t *testing.T) {
	t.Run("ventas", func(t *testing.T) {
		query, args, err := selectMovements(tablesByKind[entity.MovementSale]).Where(squirrel.Eq{"h.id": int64(5)}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, query, "FROM sales h")
		assert.Contains(t, query, "JOIN sale_details d ON d.sale_id = h.id")
		assert.Contains(t, query, "JOIN clients cp ON cp.id = h.client_id")
		assert.Contains(t, query, "d.sale_price AS unit_price")
		assert.Contains(t, query, "WHERE h.id = $1")
		assert.Contains(t, query, "ORDER BY h.id, d.id")
		assert.Equal(t, []any{int64(5)}, args)
	})
	t.Run("ingresos", func(t *testing.T) {
		query, _, err := selectMovements(tablesByKind[entity.MovementIngress]).ToSql()
		require.NoError(t, err)
		assert.Contains(t, query, "FROM ingresses h")
		assert.Contains(t, query, "JOIN providers cp ON cp.id = h.provider_id")
		assert.Contains(t, query, "d.cost AS unit_price")
		assert.Contains(t, query, "h.serial_number AS serial_number")
	})
}

func TestTablesFor_TipoInvalido(t *testing.T) {
	_, err := tablesFor(entity.MovementKind("TRANSFER"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTranslate_CodigosPostgres(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		constraint string
		want       error
	}{
		{"lock_timeout", codeLockNotAvailable, "", domain.ErrLockTimeout},
		{"deadlock", codeDeadlockDetected, "", domain.ErrLockTimeout},
		{"serialization", codeSerialization, "", domain.ErrLockTimeout},
		{"unique", codeUniqueViolation, "", domain.ErrDuplicate},
		{"foreign key", codeForeignKeyViolation, "", domain.ErrInvalidInput},
		{"stock negativo", codeCheckViolation, stockConstraint, domain.ErrInsufficientStock},
		{"otro check", codeCheckViolation, "sale_details_quantity_check", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code, ConstraintName: tt.constraint}
			err := translate("op", fmt.Errorf("wrapped: %w", pgErr))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	plain := errors.New("conexión cerrada")
	err := translate("op", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, domain.IsRetryable(err))
	assert.NoError(t, translate("op", nil))
}
