// Package auth resolves the caller's identity from whatever the upstream
// identity provider attached to the request.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
)

// RequestContextHeader carries the API gateway request context as JSON.
const RequestContextHeader = "x-amzn-request-context"

// Identity is the resolved caller.
type Identity struct {
	UserID string
	Role   string
	Email  string
	Source string
}

// Source extracts an identity from a request. ok is false when the source has
// nothing to say; err is set when it found something it could not accept.
type Source interface {
	Name() string
	Identify(r *http.Request) (id Identity, ok bool, err error)
}

// Resolver tries each source in order and returns the first identity found.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// DefaultResolver checks the gateway request context, then the gateway
// identity headers, then a bearer token when jwtSecret is set.
func DefaultResolver(jwtSecret string) *Resolver {
	sources := []Source{GatewayContext{}, GatewayHeaders{}}
	if jwtSecret != "" {
		sources = append(sources, BearerToken{Secret: []byte(jwtSecret)})
	}
	return NewResolver(sources...)
}

// Resolve returns the caller identity or an Unauthorized error.
func (r *Resolver) Resolve(req *http.Request) (Identity, error) {
	for _, s := range r.sources {
		id, ok, err := s.Identify(req)
		if err != nil {
			return Identity{}, apperrors.New(apperrors.KindUnauthorized, apperrors.ErrUnauthorized.Message, err)
		}
		if ok && id.UserID != "" {
			id.Source = s.Name()
			return id, nil
		}
	}
	return Identity{}, apperrors.ErrUnauthorized
}

// GatewayContext reads authorizer claims forwarded by API Gateway. Both REST
// (Cognito: claims.sub) and HTTP API (JWT: jwt.claims.sub) shapes are
// accepted, with principalId for Lambda authorizers.
type GatewayContext struct{}

type gatewayRequestContext struct {
	Authorizer struct {
		Claims map[string]interface{} `json:"claims"`
		JWT    struct {
			Claims map[string]interface{} `json:"claims"`
		} `json:"jwt"`
		PrincipalID string `json:"principalId"`
	} `json:"authorizer"`
}

func (GatewayContext) Name() string { return "gateway-context" }

func (GatewayContext) Identify(r *http.Request) (Identity, bool, error) {
	raw := r.Header.Get(RequestContextHeader)
	if raw == "" {
		return Identity{}, false, nil
	}
	var rc gatewayRequestContext
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		return Identity{}, false, nil
	}

	a := rc.Authorizer
	id := Identity{}
	switch {
	case claimString(a.Claims, "sub") != "":
		id.UserID = claimString(a.Claims, "sub")
		id.Email = claimString(a.Claims, "email")
	case claimString(a.JWT.Claims, "sub") != "":
		id.UserID = claimString(a.JWT.Claims, "sub")
		id.Email = claimString(a.JWT.Claims, "email")
	case a.PrincipalID != "":
		id.UserID = a.PrincipalID
	default:
		return Identity{}, false, nil
	}
	return id, true, nil
}

// GatewayHeaders reads X-User-ID / X-User-Role / X-User-Email set by the
// gateway, with a user_id cookie fallback.
type GatewayHeaders struct{}

func (GatewayHeaders) Name() string { return "gateway-headers" }

func (GatewayHeaders) Identify(r *http.Request) (Identity, bool, error) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		if c, err := r.Cookie("user_id"); err == nil {
			userID = strings.TrimSpace(c.Value)
		}
	}
	if userID == "" {
		return Identity{}, false, nil
	}
	return Identity{
		UserID: userID,
		Role:   r.Header.Get("X-User-Role"),
		Email:  r.Header.Get("X-User-Email"),
	}, true, nil
}

// BearerToken verifies an HMAC JWT from the Authorization header.
type BearerToken struct {
	Secret []byte
}

func (BearerToken) Name() string { return "bearer-token" }

func (b BearerToken) Identify(r *http.Request) (Identity, bool, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return Identity{}, false, nil
	}
	claims, err := ParseAndValidateToken(strings.TrimPrefix(h, "Bearer "), b.Secret)
	if err != nil {
		return Identity{}, false, err
	}
	userID := claimString(claims, "sub")
	if userID == "" {
		userID = claimString(claims, "user_id")
	}
	return Identity{
		UserID: userID,
		Role:   claimString(claims, "role"),
		Email:  claimString(claims, "email"),
	}, userID != "", nil
}
