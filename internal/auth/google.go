// Package auth wraps the Google OAuth 2.0 authorization-code flow.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUser is the portion of the Google userinfo response we keep.
type GoogleUser struct {
	Sub     string `json:"sub"` // stable Google account identifier
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleProvider exchanges authorization codes for Google profiles. The
// code-for-token exchange happens server-to-server; the access token never
// reaches the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a provider with the given OAuth credentials.
// callbackURL must match the authorized redirect URI configured in the
// Google Cloud console exactly.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent-page URL for a sign-in attempt. state is
// verified against a cookie on callback to prevent CSRF.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's Google profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging oauth code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding google userinfo: %w", err)
	}
	if user.Sub == "" {
		return nil, fmt.Errorf("google returned an invalid user")
	}
	return &user, nil
}
