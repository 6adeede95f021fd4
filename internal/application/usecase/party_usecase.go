package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Longitudes máximas de las columnas de proveedores y clientes.
const (
	maxProviderName = 100
	maxClientName   = 50
	maxCardID       = 20
)

// ProviderUseCase alta y consulta de proveedores (contraparte de los ingresos).
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create crea un proveedor habilitado.
func (uc *ProviderUseCase) Create(ctx context.Context, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxProviderName {
		return nil, domain.ErrInvalidInput
	}
	provider := &entity.Provider{Name: name, Address: strings.TrimSpace(in.Address), Enabled: true}
	if err := uc.repo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// List lista proveedores con paginación.
func (uc *ProviderUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProviderResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProviderResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProviderResponse(p))
	}
	return out, nil
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{ID: p.ID, Name: p.Name, Address: p.Address, Enabled: p.Enabled}
}

// ClientUseCase alta y consulta de clientes (contraparte de las ventas).
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. El documento, si viene, no puede repetirse.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	client := &entity.Client{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		CardID:      strings.TrimSpace(in.CardID),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Email:       strings.TrimSpace(in.Email),
		Address:     strings.TrimSpace(in.Address),
	}
	if client.FirstName == "" || len(client.FirstName) > maxClientName ||
		len(client.LastName) > maxClientName || len(client.CardID) > maxCardID {
		return nil, domain.ErrInvalidInput
	}
	if client.CardID != "" {
		existing, err := uc.repo.GetByCardID(ctx, client.CardID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes con paginación.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		CardID:      c.CardID,
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		Address:     c.Address,
	}
}
