package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/healthcare-portal/internal/identity"
)

const jwksCacheTTL = time.Hour

// CognitoConfig identifies the user pool patients sign in with.
type CognitoConfig struct {
	Region     string
	UserPoolID string
	ClientID   string

	// Issuer and JWKSURL override the values derived from Region and UserPoolID.
	Issuer  string
	JWKSURL string
}

// Enabled reports whether enough is configured to validate tokens.
func (c CognitoConfig) Enabled() bool {
	return c.Issuer != "" || (c.Region != "" && c.UserPoolID != "")
}

func (c CognitoConfig) issuer() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

func (c CognitoConfig) jwksURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return c.issuer() + "/.well-known/jwks.json"
}

// CognitoClaims are the claims of a Cognito ID or access token. The subject
// is used as the patient id.
type CognitoClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	TokenUse      string `json:"token_use"`
	ClientID      string `json:"client_id"`
}

const cognitoClaimsKey contextKey = "cognitoClaims"

// KeySet resolves RSA signing keys by key id from a JWKS endpoint and caches
// them for an hour. An unknown kid forces a refetch.
type KeySet struct {
	url    string
	client *http.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

// NewKeySet creates a key set for url.
func NewKeySet(url string) *KeySet {
	return &KeySet{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

// Key returns the public key for kid.
func (k *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	if time.Now().Before(k.expires) {
		if key, ok := k.keys[kid]; ok {
			k.mu.RUnlock()
			return key, nil
		}
	}
	k.mu.RUnlock()

	keys, err := fetchJWKS(ctx, k.client, k.url)
	if err != nil {
		return nil, err
	}
	k.mu.Lock()
	k.keys = keys
	k.expires = time.Now().Add(jwksCacheTTL)
	k.mu.Unlock()

	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("key %s not found in JWKS", kid)
	}
	return key, nil
}

// CognitoJWT validates RS256 tokens issued by a Cognito user pool and stores
// the patient id and email in the request context.
func CognitoJWT(cfg CognitoConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "cognito auth not configured", http.StatusUnauthorized)
			})
		}
	}
	keys := NewKeySet(cfg.jwksURL())
	issuer := cfg.issuer()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")

			claims := &CognitoClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				kid, _ := t.Header["kid"].(string)
				if kid == "" {
					return nil, fmt.Errorf("missing key id in token")
				}
				return keys.Key(r.Context(), kid)
			}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if !audienceAllowed(cfg.ClientID, claims) {
				http.Error(w, "invalid audience", http.StatusUnauthorized)
				return
			}
			if strings.TrimSpace(claims.Subject) == "" {
				http.Error(w, "token has no subject", http.StatusUnauthorized)
				return
			}

			ctx := identity.WithPatientID(r.Context(), claims.Subject)
			ctx = identity.WithEmail(ctx, strings.TrimSpace(claims.Email))
			ctx = context.WithValue(ctx, cognitoClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ID tokens carry the app client in aud; access tokens carry it in client_id.
func audienceAllowed(clientID string, claims *CognitoClaims) bool {
	if clientID == "" {
		return true
	}
	switch claims.TokenUse {
	case "access":
		return claims.ClientID == clientID
	default:
		aud, _ := claims.GetAudience()
		return slices.Contains(aud, clientID)
	}
}

// CognitoClaimsFromContext retrieves Cognito claims from the request context.
func CognitoClaimsFromContext(ctx context.Context) (*CognitoClaims, bool) {
	claims, ok := ctx.Value(cognitoClaimsKey).(*CognitoClaims)
	return claims, ok
}

// PatientAuth accepts Cognito RS256 tokens when cfg is enabled and falls back
// to HMAC patient tokens signed with secret.
func PatientAuth(cfg CognitoConfig, secret string) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return PatientJWT(secret)
	}
	cognitoMW := CognitoJWT(cfg)
	patientMW := PatientJWT(secret)

	return func(next http.Handler) http.Handler {
		viaCognito := cognitoMW(next)
		viaSecret := patientMW(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if isRS256WithKid(tokenString) {
				viaCognito.ServeHTTP(w, r)
				return
			}
			viaSecret.ServeHTTP(w, r)
		})
	}
}

func isRS256WithKid(tokenString string) bool {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false
	}
	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	var header struct {
		Alg string `json:"alg"`
		Kid string `json:"kid"`
	}
	if json.Unmarshal(headerBytes, &header) != nil {
		return false
	}
	return header.Alg == "RS256" && header.Kid != ""
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func fetchJWKS(ctx context.Context, client *http.Client, url string) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWKS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS request failed with status %d", resp.StatusCode)
	}

	var jwks jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, key := range jwks.Keys {
		if key.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(key.N, key.E)
		if err != nil {
			continue
		}
		keys[key.Kid] = pubKey
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no valid RSA keys found in JWKS")
	}
	return keys, nil
}

// parseRSAPublicKey parses base64url-encoded RSA modulus and exponent.
func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := 0
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}
	return &rsa.PublicKey{N: n, E: e}, nil
}
