package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/api/authv1"
	"github.com/mcdev12/pickswap/go/internal/auth"
	"github.com/mcdev12/pickswap/go/internal/rpc"
)

const internalToken = "front-end-shared-token"

func TestCompleteSignIn(t *testing.T) {
	e := setup(t)
	e.store.SeedAllowedEmail(adminEmail)
	e.store.SeedAllowedEmail("member@league.test")

	issuer, err := auth.NewIssuer("users-test-secret-0123456789", 0, e.clock)
	require.NoError(t, err)
	svc := NewService(e.app, issuer, auth.NewAuthorizer([]string{adminEmail}), internalToken)

	mux := http.NewServeMux()
	// sign-in completion is public; the internal token guards it
	interceptor := auth.NewInterceptor(issuer, authv1.AuthServiceCompleteSignInProcedure)
	rpc.Mount(mux, authv1.NewAuthServiceHandler(svc, connect.WithInterceptors(interceptor))...)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := rpc.NewClient[authv1.CompleteSignInRequest, authv1.CompleteSignInResponse](
		srv.Client(), srv.URL, authv1.AuthServiceCompleteSignInProcedure)

	call := func(token, email string) (*connect.Response[authv1.CompleteSignInResponse], error) {
		req := connect.NewRequest(&authv1.CompleteSignInRequest{Email: email, Name: "Someone"})
		if token != "" {
			req.Header().Set(auth.InternalTokenHeader, token)
		}
		return client.CallUnary(ctx(), req)
	}

	_, err = call("", "member@league.test")
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	_, err = call("wrong", "member@league.test")
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = call(internalToken, "stranger@league.test")
	require.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	res, err := call(internalToken, "member@league.test")
	require.NoError(t, err)
	require.False(t, res.Msg.IsAdmin)
	require.Contains(t, res.Header().Get("Set-Cookie"), auth.SessionCookie+"=")

	p, err := issuer.Verify(res.Msg.Token)
	require.NoError(t, err)
	require.Equal(t, res.Msg.User.ID, p.UserID.String())
	require.Equal(t, "member@league.test", p.Email)

	admin, err := call(internalToken, adminEmail)
	require.NoError(t, err)
	require.True(t, admin.Msg.IsAdmin)
}
