package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/healthcare-portal/internal/identity"
)

type contextKey string

const patientClaimsKey contextKey = "patientClaims"

// PatientClaims are the claims carried by a patient bearer token. The
// subject is the patient id.
type PatientClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// PatientJWT enforces an HS256 patient JWT carrying exp and stores the patient
// id and email in the request context.
func PatientJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "patient auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := PatientClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if strings.TrimSpace(claims.Subject) == "" {
				http.Error(w, "token has no subject", http.StatusUnauthorized)
				return
			}

			ctx := identity.WithPatientID(r.Context(), claims.Subject)
			ctx = identity.WithEmail(ctx, strings.TrimSpace(claims.Email))
			ctx = context.WithValue(ctx, patientClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PatientClaimsFromContext returns patient JWT claims if present.
func PatientClaimsFromContext(ctx context.Context) (PatientClaims, bool) {
	claims, ok := ctx.Value(patientClaimsKey).(PatientClaims)
	return claims, ok
}

// SignPatientToken issues an HS256 patient token valid for ttl.
func SignPatientToken(secret, patientID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := PatientClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
