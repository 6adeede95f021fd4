package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/inventory"
	"github.com/jhoicas/ventas-api/internal/domain/pricing"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// RetryPolicy reintentos ante domain.ErrLockTimeout. MaxRetries 0 desactiva los reintentos.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
}

// Processor registra ingresos y ventas manteniendo el stock consistente:
// bloquea productos en orden ascendente de id, aplica los deltas, calcula totales
// y persiste cabecera, detalles y stock en una sola transacción.
type Processor struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	pricing   *pricing.Engine
	retry     RetryPolicy
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewProcessor construye el procesador. movements se usa para las lecturas fuera de transacción.
func NewProcessor(txRunner TxRunner, movements repository.MovementRepository, engine *pricing.Engine, log zerolog.Logger) *Processor {
	return &Processor{
		txRunner:  txRunner,
		movements: movements,
		pricing:   engine,
		log:       log,
		tracer:    otel.Tracer("ventas-api/inventory"),
		now:       time.Now,
	}
}

// WithRetry habilita reintentos con backoff exponencial ante contención de bloqueos.
func (p *Processor) WithRetry(policy RetryPolicy) *Processor {
	p.retry = policy
	return p
}

// WithClock reemplaza el reloj usado cuando el movimiento no trae fecha.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// CreateIngress registra un ingreso de mercadería: suma stock por cada línea.
func (p *Processor) CreateIngress(ctx context.Context, cmd IngressCommand) (*entity.Movement, error) {
	m := &entity.Movement{
		Kind:           entity.MovementIngress,
		CounterpartyID: cmd.ProviderID,
		UserID:         cmd.UserID,
		SerialNumber:   cmd.SerialNumber,
		Lines:          make([]entity.MovementLine, 0, len(cmd.Lines)),
	}
	if cmd.OccurredAt != nil {
		m.OccurredAt = *cmd.OccurredAt
	}
	for _, l := range cmd.Lines {
		m.Lines = append(m.Lines, entity.MovementLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.Cost})
	}
	return p.process(ctx, m, cmd.Tax)
}

// CreateSale registra una venta: descuenta stock y fija el precio de cada línea
// con el precio vigente del producto, ignorando el enviado por el cliente.
func (p *Processor) CreateSale(ctx context.Context, cmd SaleCommand) (*entity.Movement, error) {
	m := &entity.Movement{
		Kind:           entity.MovementSale,
		CounterpartyID: cmd.ClientID,
		UserID:         cmd.UserID,
		Lines:          make([]entity.MovementLine, 0, len(cmd.Lines)),
	}
	if cmd.OccurredAt != nil {
		m.OccurredAt = *cmd.OccurredAt
	}
	for _, l := range cmd.Lines {
		m.Lines = append(m.Lines, entity.MovementLine{ProductID: l.ProductID, Quantity: l.Quantity, Discount: l.Discount})
	}
	return p.process(ctx, m, cmd.Tax)
}

// GetMovement obtiene un movimiento con sus detalles; NotFound si no existe.
func (p *Processor) GetMovement(ctx context.Context, kind entity.MovementKind, id int64) (*entity.Movement, error) {
	ctx, span := p.tracer.Start(ctx, "inventory.GetMovement", trace.WithAttributes(
		attribute.String("movement.kind", string(kind)),
		attribute.Int64("movement.id", id),
	))
	defer span.End()

	m, err := p.movements.FindByID(ctx, kind, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find movement: %w", err)
	}
	if m == nil {
		return nil, domain.NewNotFound(kind.Entity(), id)
	}
	return m, nil
}

// ListMovements lista todos los movimientos de un tipo con sus detalles.
func (p *Processor) ListMovements(ctx context.Context, kind entity.MovementKind) ([]*entity.Movement, error) {
	ctx, span := p.tracer.Start(ctx, "inventory.ListMovements", trace.WithAttributes(
		attribute.String("movement.kind", string(kind)),
	))
	defer span.End()

	list, err := p.movements.FindAll(ctx, kind)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

func (p *Processor) process(ctx context.Context, m *entity.Movement, explicitTax *decimal.Decimal) (*entity.Movement, error) {
	// ── 1. Validación estructural (antes de cualquier consulta o bloqueo) ────
	if err := ValidateStructure(m); err != nil {
		return nil, err
	}
	if err := ValidateTax(explicitTax); err != nil {
		return nil, err
	}

	uowID := uuid.NewString()
	log := p.log.With().Str("uow_id", uowID).Str("kind", string(m.Kind)).Logger()
	ctx, span := p.tracer.Start(ctx, "inventory.Create"+m.Kind.Entity(), trace.WithAttributes(
		attribute.String("uow.id", uowID),
		attribute.Int("movement.lines", len(m.Lines)),
	))
	defer span.End()

	var saved *entity.Movement
	attempt := 0
	err := p.withRetry(ctx, log, func() error {
		attempt++
		work := cloneMovement(m)
		if err := p.txRunner.Run(ctx, func(repos Repos) error {
			return p.apply(ctx, repos, work, explicitTax)
		}); err != nil {
			return err
		}
		saved = work
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ev := log.Warn()
		if !isBusinessError(err) {
			ev = log.Error()
		}
		ev.Err(err).Int("attempts", attempt).Msg("movimiento rechazado")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("movement.id", saved.ID))
	log.Info().
		Int64("movement_id", saved.ID).
		Str("total", saved.Total.StringFixed(pricing.MoneyPlaces)).
		Int("attempts", attempt).
		Msg("movimiento registrado")
	return saved, nil
}

// apply corre dentro de la transacción: cualquier error provoca Rollback.
func (p *Processor) apply(ctx context.Context, repos Repos, m *entity.Movement, explicitTax *decimal.Decimal) error {
	// ── 2. Contraparte y actor ───────────────────────────────────────────────
	counterparty, err := ResolveCounterparty(ctx, repos, m.Kind, m.CounterpartyID)
	if err != nil {
		return err
	}
	actor, err := ResolveActor(ctx, repos, m.UserID)
	if err != nil {
		return err
	}

	// ── 3. Fecha por defecto ─────────────────────────────────────────────────
	if m.OccurredAt.IsZero() {
		m.OccurredAt = p.now()
	}

	// ── 4. Bloqueo ordenado ──────────────────────────────────────────────────
	_, lockSpan := p.tracer.Start(ctx, "inventory.LockProducts")
	locks, err := inventory.LockInOrder(ctx, repos.Stock, m.ProductIDs())
	lockSpan.End()
	if err != nil {
		return err
	}

	// ── 5. Aplicación por línea, en el orden original ────────────────────────
	for i := range m.Lines {
		line := &m.Lines[i]
		lp, _ := locks.Get(line.ProductID)
		switch m.Kind {
		case entity.MovementIngress:
			if err := lp.AdjustStock(line.Quantity); err != nil {
				return err
			}
		case entity.MovementSale:
			if err := lp.AdjustStock(-line.Quantity); err != nil {
				return err
			}
			line.UnitPrice = lp.Product().Price
			gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if line.Discount.GreaterThan(gross) {
				return fmt.Errorf("%w: descuento %s mayor al importe de la línea %d",
					domain.ErrInvalidInput, line.Discount, i+1)
			}
		}
		line.Product = lp.Product().Summary()
	}

	// ── 6. Totales ───────────────────────────────────────────────────────────
	p.pricing.Apply(m, explicitTax)

	// ── 7. Persistencia atómica ──────────────────────────────────────────────
	if err := locks.Flush(ctx, repos.Stock); err != nil {
		return err
	}
	if err := repos.Movements.Save(ctx, m); err != nil {
		return fmt.Errorf("save %s: %w", m.Kind.Entity(), err)
	}

	// ── 8. Respuesta desde el grafo en memoria ───────────────────────────────
	m.Counterparty = counterparty
	m.Actor = actor
	return nil
}

func (p *Processor) withRetry(ctx context.Context, log zerolog.Logger, fn func() error) error {
	if p.retry.MaxRetries <= 0 {
		return fn()
	}
	b := backoff.NewExponentialBackOff()
	if p.retry.InitialInterval > 0 {
		b.InitialInterval = p.retry.InitialInterval
	}
	b.MaxElapsedTime = 0

	op := func() error {
		err := fn()
		if err != nil && !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("wait", wait).Msg("contención de bloqueo, reintentando")
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.retry.MaxRetries)), ctx)
	return backoff.RetryNotify(op, policy, notify)
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	return &cp
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrEmptyLines) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrLockTimeout)
}
