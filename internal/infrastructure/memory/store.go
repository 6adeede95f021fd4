package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*Store)(nil)
	_ repository.ProviderRepository = providerRepo{}
	_ repository.ClientRepository   = clientRepo{}
	_ repository.UserRepository     = userRepo{}
)

// Store almacenamiento en memoria para desarrollo y pruebas.
// Cada producto tiene un semáforo propio que hace de bloqueo de fila;
// las escrituras de una transacción se aplican recién en el commit.
type Store struct {
	mu          sync.RWMutex
	products    map[int64]*entity.Product
	providers   map[int64]*entity.Provider
	clients     map[int64]*entity.Client
	users       map[int64]*entity.User
	movements   map[entity.MovementKind][]*entity.Movement
	rowLocks    map[int64]chan struct{}
	seq         map[string]int64
	lockTimeout time.Duration
}

// NewStore construye un store vacío. lockTimeout acota la espera por el bloqueo de un producto.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		products:    map[int64]*entity.Product{},
		providers:   map[int64]*entity.Provider{},
		clients:     map[int64]*entity.Client{},
		users:       map[int64]*entity.User{},
		movements:   map[entity.MovementKind][]*entity.Movement{},
		rowLocks:    map[int64]chan struct{}{},
		seq:         map[string]int64{},
		lockTimeout: lockTimeout,
	}
}

// nextID debe llamarse con mu tomado en escritura.
func (s *Store) nextID(name string, requested int64) int64 {
	if requested > s.seq[name] {
		s.seq[name] = requested
		return requested
	}
	if requested > 0 {
		return requested
	}
	s.seq[name]++
	return s.seq[name]
}

// AddProvider registra un proveedor; asigna id si viene en cero.
func (s *Store) AddProvider(p entity.Provider) *entity.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("provider", p.ID)
	s.providers[p.ID] = &p
	return &p
}

// AddClient registra un cliente; asigna id si viene en cero.
func (s *Store) AddClient(c entity.Client) *entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID("client", c.ID)
	s.clients[c.ID] = &c
	return &c
}

// AddProduct registra un producto con su stock inicial; asigna id si viene en cero.
func (s *Store) AddProduct(p entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("product", p.ID)
	s.products[p.ID] = &p
	cp := p
	return &cp
}

// pageIDs ordena los ids y aplica offset y limit (limit <= 0 no limita).
func pageIDs(ids []int64, limit, offset int) []int64 {
	slices.Sort(ids)
	if offset > 0 {
		ids = ids[min(offset, len(ids)):]
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// ── Catálogo de productos ─────────────────────────────────────────────────────

// Create persiste un nuevo producto.
func (s *Store) Create(_ context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.nextID("product", product.ID)
	cp := *product
	s.products[product.ID] = &cp
	return nil
}

// GetByID obtiene un producto por id (lectura simple, sin bloqueo).
func (s *Store) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// List lista productos ordenados por id.
func (s *Store) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.products))
	for id, p := range s.products {
		if filter.OnlyEnabled && !p.Enabled {
			continue
		}
		ids = append(ids, id)
	}
	ids = pageIDs(ids, filter.Limit, filter.Offset)
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		cp := *s.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

// Update actualiza los datos de catálogo; el stock se conserva.
// Espera el bloqueo de la fila como una unidad de trabajo más.
func (s *Store) Update(ctx context.Context, product *entity.Product) error {
	if err := s.acquireRow(ctx, product.ID); err != nil {
		return err
	}
	defer s.releaseRow(product.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *product
	cp.Stock = cur.Stock
	cp.CreatedAt = cur.CreatedAt
	s.products[product.ID] = &cp
	return nil
}

// DeleteOrDisable elimina el producto o lo deshabilita si algún movimiento confirmado lo usa.
// Mientras una unidad de trabajo retiene la fila, espera como máximo lockTimeout.
func (s *Store) DeleteOrDisable(ctx context.Context, id int64) (bool, error) {
	if err := s.acquireRow(ctx, id); err != nil {
		return false, err
	}
	defer s.releaseRow(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.referencedLocked(id) {
		p.Enabled = false
		p.UpdatedAt = time.Now()
		return true, nil
	}
	delete(s.products, id)
	return false, nil
}

// referencedLocked debe llamarse con mu tomado.
func (s *Store) referencedLocked(id int64) bool {
	for _, list := range s.movements {
		for _, m := range list {
			for _, l := range m.Lines {
				if l.ProductID == id {
					return true
				}
			}
		}
	}
	return false
}

// ── Proveedores, clientes y usuarios ─────────────────────────────────────────

type providerRepo struct{ s *Store }

// Providers expone el repositorio de proveedores.
func (s *Store) Providers() repository.ProviderRepository { return providerRepo{s} }

func (r providerRepo) Create(_ context.Context, p *entity.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID("provider", p.ID)
	cp := *p
	r.s.providers[p.ID] = &cp
	return nil
}

func (r providerRepo) GetByID(_ context.Context, id int64) (*entity.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.providers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r providerRepo) List(_ context.Context, limit, offset int) ([]*entity.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]int64, 0, len(r.s.providers))
	for id := range r.s.providers {
		ids = append(ids, id)
	}
	ids = pageIDs(ids, limit, offset)
	out := make([]*entity.Provider, 0, len(ids))
	for _, id := range ids {
		cp := *r.s.providers[id]
		out = append(out, &cp)
	}
	return out, nil
}

type clientRepo struct{ s *Store }

// Clients expone el repositorio de clientes.
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

// Create rechaza con domain.ErrDuplicate un documento ya registrado, igual que el índice único en PostgreSQL.
func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.CardID != "" {
		for _, cur := range r.s.clients {
			if cur.CardID == c.CardID {
				return domain.ErrDuplicate
			}
		}
	}
	c.ID = r.s.nextID("client", c.ID)
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r clientRepo) GetByCardID(_ context.Context, cardID string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.clients {
		if c.CardID == cardID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r clientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]int64, 0, len(r.s.clients))
	for id := range r.s.clients {
		ids = append(ids, id)
	}
	ids = pageIDs(ids, limit, offset)
	out := make([]*entity.Client, 0, len(ids))
	for _, id := range ids {
		cp := *r.s.clients[id]
		out = append(out, &cp)
	}
	return out, nil
}

type userRepo struct{ s *Store }

// Users expone el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (r userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrDuplicate
		}
	}
	user.ID = r.s.nextID("user", user.ID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
