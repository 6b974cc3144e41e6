// Package identity wraps the external identity provider: credential
// issuance (signup/confirm/login) and bearer-token verification. The rest
// of the system only sees the two narrow interfaces below so the workflow
// and handlers can be tested with fakes.
package identity

import "context"

// Tokens is the result of a successful login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Provider issues and confirms credentials.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (providerID string, err error)
	Confirm(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*Tokens, error)
}

// Claims is the verified identity extracted from an access token.
type Claims struct {
	Subject string
}

// Verifier validates a bearer token against the provider's signing keys.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
