package oauth

import (
	"context"
	"errors"
)

// Profile es la identidad normalizada que devuelve un proveedor externo.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

var (
	// ErrExchange indica que el intercambio del authorization code fallo.
	ErrExchange = errors.New("oauth code exchange failed")
	// ErrProfile indica que la consulta del perfil fallo luego de un intercambio exitoso.
	ErrProfile = errors.New("oauth profile fetch failed")
)

// Provider define el contrato del puente con el proveedor de identidad.
// FetchProfile ejecuta los dos pasos (exchange + userinfo) como una unidad:
// cualquier fallo aborta el login sin estado parcial.
type Provider interface {
	Name() string
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (Profile, error)
}
