package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// InternalTokenHeader authenticates trusted callers such as the sign-in front end
const InternalTokenHeader = "X-Internal-Token"

// Interceptor resolves the caller from the session cookie or a bearer token.
// Procedures listed as public run without a principal.
type Interceptor struct {
	issuer *Issuer
	public map[string]bool
}

// NewInterceptor creates the authentication interceptor
func NewInterceptor(issuer *Issuer, publicProcedures ...string) *Interceptor {
	public := make(map[string]bool, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = true
	}
	return &Interceptor{issuer: issuer, public: public}
}

var _ connect.Interceptor = (*Interceptor)(nil)

func (i *Interceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		if i.public[req.Spec().Procedure] {
			return next(ctx, req)
		}
		token := TokenFromHeader(req.Header())
		if token == "" {
			return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("sign in required"))
		}
		p, err := i.issuer.Verify(token)
		if err != nil {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return next(WithPrincipal(ctx, p), req)
	}
}

func (i *Interceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *Interceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		return connect.NewError(connect.CodeUnimplemented, errors.New("streaming is not supported"))
	}
}

// TokenFromHeader extracts a session token from a bearer Authorization
// header or, failing that, from the session cookie.
func TokenFromHeader(h http.Header) string {
	if authz := h.Get("Authorization"); authz != "" {
		if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	cookie, err := (&http.Request{Header: h}).Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CheckInternalToken reports whether h carries the expected internal token
func CheckInternalToken(h http.Header, expected string) bool {
	got := h.Get(InternalTokenHeader)
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
