package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaderlpay/backend/internal/model"
)

const minSecretLen = 32

// SecretBytes pads a configured secret to the minimum HMAC key length.
func SecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// principalClaims is the shape of identity tokens issued by the external
// identity provider. The core trusts id, role and school_id verbatim.
type principalClaims struct {
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HMAC-signed identity token and extracts the
// principal.
func ParseToken(tokenString string, secret []byte) (model.Principal, error) {
	var claims principalClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return model.Principal{}, errors.New("invalid token")
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return model.Principal{}, err
	}
	return model.Principal{ID: claims.Subject, Role: role, SchoolID: claims.SchoolID}, nil
}

// RequireAuth verifies the Bearer token and sets the principal on the
// request context.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if header == "" || tokenString == header {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			principal, err := ParseToken(tokenString, secret)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// DevPrincipal is the dummy principal injected when AUTH_REQUIRED=false.
var DevPrincipal = model.Principal{ID: "dev-user-id", Role: model.RoleOrganizer}

// DevAuth injects DevPrincipal. Development only.
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), DevPrincipal)))
	})
}
