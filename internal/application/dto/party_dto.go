package dto

// CreateProviderRequest body para POST /api/providers.
type CreateProviderRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// ProviderResponse proveedor en respuestas.
type ProviderResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Enabled bool   `json:"enabled"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"`
	CardID      string `json:"card_id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CardID      string `json:"card_id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}
