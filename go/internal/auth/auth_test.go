package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer, err := NewIssuer(testSecret, 0, clock)
	require.NoError(t, err)

	p := Principal{UserID: uuid.New(), Email: "x@league.test", Name: "X"}
	token, expires, err := issuer.Issue(p)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(DefaultSessionTTL), expires)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer, err := NewIssuer(testSecret, time.Hour, clock)
	require.NoError(t, err)

	token, _, err := issuer.Issue(Principal{UserID: uuid.New(), Email: "x@league.test"})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = issuer.Verify(token)
	require.Error(t, err)

	other, err := NewIssuer("another-secret-another-secret", time.Hour, clock)
	require.NoError(t, err)
	foreign, _, err := other.Issue(Principal{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = issuer.Verify(foreign)
	require.Error(t, err)
}

func TestNewIssuerRejectsShortSecret(t *testing.T) {
	_, err := NewIssuer("short", 0, clockwork.NewRealClock())
	require.Error(t, err)
}

func TestAuthorizer(t *testing.T) {
	a := NewAuthorizer([]string{" Admin@League.test "})
	require.True(t, a.IsAdmin(Principal{Email: "admin@league.test"}))
	require.False(t, a.IsAdmin(Principal{Email: "member@league.test"}))

	_, err := a.RequireAdmin(context.Background())
	require.True(t, errs.Is(err, errs.KindUnauthorized))

	ctx := WithPrincipal(context.Background(), Principal{UserID: uuid.New(), Email: "member@league.test"})
	_, err = a.RequireAdmin(ctx)
	require.True(t, errs.Is(err, errs.KindUnauthorized))

	ctx = WithPrincipal(context.Background(), Principal{UserID: uuid.New(), Email: "ADMIN@league.test"})
	p, err := a.RequireAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, "ADMIN@league.test", p.Email)
}

func TestTokenFromHeader(t *testing.T) {
	h := http.Header{}
	require.Empty(t, TokenFromHeader(h))

	h.Set("Cookie", SessionCookie+"=from-cookie; other=1")
	require.Equal(t, "from-cookie", TokenFromHeader(h))

	h.Set("Authorization", "Bearer from-header")
	require.Equal(t, "from-header", TokenFromHeader(h))
}

func TestCheckInternalToken(t *testing.T) {
	h := http.Header{}
	require.False(t, CheckInternalToken(h, "secret"))
	h.Set(InternalTokenHeader, "secret")
	require.True(t, CheckInternalToken(h, "secret"))
	require.False(t, CheckInternalToken(h, ""))
	require.False(t, CheckInternalToken(h, "other"))
}
