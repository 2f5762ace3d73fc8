package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleProviderName = "google"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Google implementa Provider contra Google OAuth2.
type Google struct {
	conf        *oauth2.Config
	userInfoURL string
	client      *http.Client
	logger      *zap.Logger
}

// NewGoogle construye el proveedor con credenciales de cliente y redirect fijo.
func NewGoogle(clientID, clientSecret, redirectURL string, logger *zap.Logger) (*Google, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, fmt.Errorf("google oauth config missing required fields")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	return &Google{
		conf:        conf,
		userInfoURL: googleUserInfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}, nil
}

func (g *Google) Name() string {
	return googleProviderName
}

// AuthURL arma la URL de autorizacion con offline access y consent.
func (g *Google) AuthURL(state string) string {
	return g.conf.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// FetchProfile intercambia el code por un access token y consulta userinfo.
// Sin reintentos: el par de llamadas es atomico desde el punto de vista del caller.
func (g *Google) FetchProfile(ctx context.Context, code string) (Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("google code exchange failed", zap.Error(err))
		}
		return Profile{}, fmt.Errorf("%w: %s", ErrExchange, "code rejected by provider")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfile, "create userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("google userinfo request failed", zap.Error(err))
		}
		return Profile{}, fmt.Errorf("%w: %s", ErrProfile, "userinfo unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfile, "read userinfo response")
	}

	if resp.StatusCode >= 400 {
		if g.logger != nil {
			g.logger.Warn("google userinfo error status",
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", body),
			)
		}
		return Profile{}, fmt.Errorf("%w: status=%d", ErrProfile, resp.StatusCode)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfile, "unmarshal userinfo response")
	}
	if profile.Email == "" {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfile, "userinfo missing email")
	}

	return profile, nil
}
