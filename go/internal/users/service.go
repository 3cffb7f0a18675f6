package users

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/api/authv1"
	"github.com/mcdev12/pickswap/go/internal/api/leaguev1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/errs"
	"github.com/mcdev12/pickswap/go/internal/models"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

// UsersApp defines what the auth service needs from the users application
type UsersApp interface {
	Provision(ctx context.Context, in SignIn) (*models.User, error)
}

// Service implements the AuthService Connect interface. It is called by the
// OAuth front end once the provider has verified an email, and trades that
// identity for a session token.
type Service struct {
	app           UsersApp
	issuer        *auth.Issuer
	authz         *auth.Authorizer
	internalToken string
}

// NewService creates a new auth service
func NewService(app UsersApp, issuer *auth.Issuer, authz *auth.Authorizer, internalToken string) *Service {
	return &Service{app: app, issuer: issuer, authz: authz, internalToken: internalToken}
}

var _ authv1.AuthServiceHandler = (*Service)(nil)

// CompleteSignIn provisions the member and issues their session
func (s *Service) CompleteSignIn(ctx context.Context, req *connect.Request[authv1.CompleteSignInRequest]) (*connect.Response[authv1.CompleteSignInResponse], error) {
	if !auth.CheckInternalToken(req.Header(), s.internalToken) {
		log.Warn().Str("peer", req.Peer().Addr).Msg("sign-in completion without a valid internal token")
		return nil, rpc.Error(errs.Unauthorized("invalid internal token"))
	}

	user, err := s.app.Provision(ctx, SignIn{
		Email: req.Msg.Email,
		Name:  req.Msg.Name,
		Image: req.Msg.Image,
	})
	if err != nil {
		return nil, rpc.Error(err)
	}

	p := auth.Principal{UserID: user.ID, Email: user.Email, Name: user.Name}
	token, expires, err := s.issuer.Issue(p)
	if err != nil {
		return nil, rpc.Error(err)
	}

	res := connect.NewResponse(&authv1.CompleteSignInResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      leaguev1.MemberFromModel(user),
		IsAdmin:   s.authz.IsAdmin(p),
	})
	cookie := &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	res.Header().Add("Set-Cookie", cookie.String())
	return res, nil
}
