package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"verigate/internal/verification/models"
)

// DefaultRefreshWindow is how long before expiry a credential is refreshed.
const DefaultRefreshWindow = 5 * time.Minute

// fallbackTTL applies when a provider returns neither expires_in nor a JWT exp.
const fallbackTTL = time.Hour

// Credential is one provider session or access token.
type Credential struct {
	ProviderID string    `json:"provider_id"`
	Token      string    `json:"token"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// UsableAt reports whether the credential can still be handed out at now,
// given the refresh-ahead window.
func (c Credential) UsableAt(now time.Time, window time.Duration) bool {
	if c.Token == "" || c.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(window).Before(c.ExpiresAt)
}

// Exchanger performs the provider-specific key-for-token or session exchange.
type Exchanger func(ctx context.Context) (Credential, error)

// AuthenticationError reports a failed credential acquisition or refresh.
type AuthenticationError struct {
	ProviderID string
	Err        error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication with %s failed: %v", e.ProviderID, e.Err)
}

func (e *AuthenticationError) Unwrap() error          { return e.Err }
func (e *AuthenticationError) Kind() models.ErrorKind { return models.KindAuthentication }

// ExpiryFromJWT reads the exp claim of an unverified JWT. The provider is the
// issuer and the token is opaque to us; only its lifetime matters here.
func ExpiryFromJWT(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// completeExpiry fills IssuedAt and ExpiresAt when the exchange left them unset.
func completeExpiry(c Credential, now time.Time) Credential {
	if c.IssuedAt.IsZero() {
		c.IssuedAt = now
	}
	if c.ExpiresAt.IsZero() {
		if exp, ok := ExpiryFromJWT(c.Token); ok {
			c.ExpiresAt = exp
		} else {
			c.ExpiresAt = now.Add(fallbackTTL)
		}
	}
	return c
}
