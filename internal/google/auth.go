package google

import (
	"context"
	"net/http"
	"time"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/config"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"golang.org/x/oauth2"
)

// OAuth scopes needed to create and populate documents and forms on the
// teacher's behalf.
const (
	ScopeDocuments = "https://www.googleapis.com/auth/documents"
	ScopeFormsBody = "https://www.googleapis.com/auth/forms.body"
)

// NewOAuthConfig builds the OAuth2 client configuration for the Docs and
// Forms APIs from application config.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{ScopeDocuments, ScopeFormsBody},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

// ClientFor returns an HTTP client that authorizes every request with the
// teacher's stored tokens, refreshing them transparently when expired.
// Each request is bounded by the given timeout.
func ClientFor(ctx context.Context, conf *oauth2.Config, tokens *model.GoogleTokens, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	tok := &oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Expiry:       tokens.Expiry,
	}

	client := conf.Client(ctx, tok)
	client.Timeout = timeout
	return client
}
