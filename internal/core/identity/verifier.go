package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AccessTokenVerifier validates Cognito access tokens against the user
// pool's published JWKS. Keys are fetched lazily and cached; signature,
// expiry and issuer are all checked, plus the token_use claim which
// distinguishes access tokens from id tokens.
type AccessTokenVerifier struct {
	issuer string
	keys   jwk.Set
}

func NewAccessTokenVerifier(ctx context.Context, region, userPoolID string) (*AccessTokenVerifier, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	jwksURL := issuer + "/.well-known/jwks.json"

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register jwks endpoint: %w", err)
	}

	return &AccessTokenVerifier{
		issuer: issuer,
		keys:   jwk.NewCachedSet(cache, jwksURL),
	}, nil
}

func (v *AccessTokenVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	tok, err := jwt.ParseString(token,
		jwt.WithContext(ctx),
		jwt.WithKeySet(v.keys),
		jwt.WithIssuer(v.issuer),
		jwt.WithValidate(true),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("could not validate token: %w", err)
	}

	use, _ := tok.Get("token_use")
	if use != "access" {
		return Claims{}, fmt.Errorf("invalid token use, must be an access token")
	}

	return Claims{Subject: tok.Subject()}, nil
}
