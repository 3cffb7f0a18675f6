// Package authv1 defines the auth.v1.AuthService messages and routes.
package authv1

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

const AuthServiceName = "auth.v1.AuthService"

const AuthServiceCompleteSignInProcedure = "/auth.v1.AuthService/CompleteSignIn"

// CompleteSignInRequest is sent by the OAuth front end once the provider
// has verified the email.
type CompleteSignInRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type CompleteSignInResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *leaguev1.Member `json:"user"`
	IsAdmin   bool             `json:"is_admin"`
}

// AuthServiceHandler is implemented by the auth service
type AuthServiceHandler interface {
	CompleteSignIn(context.Context, *connect.Request[CompleteSignInRequest]) (*connect.Response[CompleteSignInResponse], error)
}

// NewAuthServiceHandler returns the routes serving svc
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) []rpc.Route {
	return []rpc.Route{
		rpc.Unary(AuthServiceCompleteSignInProcedure, svc.CompleteSignIn, opts...),
	}
}
