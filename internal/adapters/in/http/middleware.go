package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/dgrijalva/jwt-go"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

const (
	// HeaderIdempotencyKey deduplicates POST /orders and POST /batches.
	HeaderIdempotencyKey = "Idempotency-Key"

	// DefaultIdempotencyTTL is how long a key is remembered.
	DefaultIdempotencyTTL = 24 * time.Hour

	actorContextKey = "actor"
	// accessTokenParam carries the token for WebSocket clients that cannot
	// set headers.
	accessTokenParam = "access_token"
)

// Authenticate verifies the HMAC signed bearer token and stores its subject
// as the acting user.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return unauthenticated("a bearer token is required")
			}

			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !token.Valid {
				return unauthenticated("the bearer token is invalid or expired")
			}

			actorID, err := kernel.UUIDFromString(claims.Subject)
			if err != nil {
				return unauthenticated("the bearer token subject is not a user id")
			}

			c.Set(actorContextKey, actorID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if c.Request().Header.Get(echo.HeaderUpgrade) != "" {
		return c.QueryParam(accessTokenParam)
	}
	return ""
}

func actorOf(c echo.Context) (kernel.UUID, error) {
	actorID, ok := c.Get(actorContextKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, unauthenticated("no authenticated user")
	}
	return actorID, nil
}

// Idempotent rejects a replayed Idempotency-Key with DuplicateRequest. Keys
// are scoped to the actor and route. A failed request forgets its key so the
// client may retry.
func Idempotent(store ports.IdempotencyStore, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return next(c)
			}
			actorID, err := actorOf(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			scoped := actorID.String() + ":" + c.Request().Method + ":" + c.Path() + ":" + key
			seen, err := store.Seen(ctx, scoped, ttl)
			if err != nil {
				return errs.NewPersistenceFailureError("record idempotency key", err)
			}
			if seen {
				return fmt.Errorf("%w: idempotency key %q was already used", errs.ErrDuplicateRequest, key)
			}

			if err := next(c); err != nil {
				if forgetErr := store.Forget(ctx, scoped); forgetErr != nil {
					return errors.Join(err, forgetErr)
				}
				return err
			}
			return nil
		}
	}
}

// observe records request counts and latency per route template. Errors are
// rendered here so the recorded code is the one sent.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		code := strconv.Itoa(c.Response().Status)
		s.metrics.HTTPRequests.WithLabelValues(route, method, code).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return nil
	}
}

// requestValidator checks requests against the OpenAPI document before they
// reach a handler.
type requestValidator struct {
	router routers.Router
}

func newRequestValidator(doc *openapi3.T) (*requestValidator, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &requestValidator{router: router}, nil
}

func (v *requestValidator) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		route, pathParams, err := v.router.FindRoute(req)
		if err != nil {
			// Unknown routes are left to echo's 404 and 405 handling.
			return next(c)
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
			return invalidRequest(validationMessage(err))
		}
		return next(c)
	}
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return fmt.Sprintf("parameter %q is invalid: %v", reqErr.Parameter.Name, reqErr.Err)
		}
		if reqErr.RequestBody != nil {
			var schemaErr *openapi3.SchemaError
			if errors.As(reqErr.Err, &schemaErr) {
				return fmt.Sprintf("request body is invalid at %s: %s",
					"/"+strings.Join(schemaErr.JSONPointer(), "/"), schemaErr.Reason)
			}
			return fmt.Sprintf("request body is invalid: %v", reqErr.Err)
		}
	}
	return err.Error()
}
