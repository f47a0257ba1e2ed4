package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthIdentity is what a provider tells us about the signed-in user.
type OAuthIdentity struct {
	Provider      string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

// GoogleIdentity exchanges an authorization code for the user's identity.
type GoogleIdentity interface {
	Identify(ctx context.Context, code, redirectURI, codeVerifier string) (*OAuthIdentity, error)
}

type googleOAuth struct {
	config *oauth2.Config
}

// NewGoogleIdentity returns nil when Google sign-in is not configured.
func NewGoogleIdentity(clientID, clientSecret string) GoogleIdentity {
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &googleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleOAuth) Identify(ctx context.Context, code, redirectURI, codeVerifier string) (*OAuthIdentity, error) {
	// The redirect URI must match the one the app used; mobile clients pick their own scheme.
	cfg := *g.config
	cfg.RedirectURL = redirectURI

	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := cfg.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	client := cfg.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get google user info: %w", err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned %d", resp.StatusCode)
	}

	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}

	return &OAuthIdentity{
		Provider:      "google",
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
	}, nil
}
