package sqlutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

func TestClassifyConflictCodes(t *testing.T) {
	for _, code := range []pq.ErrorCode{"23505", "40001", "40P01"} {
		err := Classify(fmt.Errorf("insert trade: %w", &pq.Error{Code: code}))
		require.Truef(t, errs.Is(err, errs.KindStorageConflict), "code %s", code)
	}
}

func TestClassifyLeavesOtherErrors(t *testing.T) {
	plain := errors.New("connection reset")
	require.Same(t, plain, Classify(plain))

	kinded := errs.NotFound("trade not found")
	require.Equal(t, kinded, Classify(kinded))

	syntax := &pq.Error{Code: "42601"}
	require.Equal(t, errs.KindInternal, errs.KindOf(Classify(syntax)))
	require.Nil(t, Classify(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestUUIDArray(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	arr := UUIDArray([]uuid.UUID{a, b})
	require.Equal(t, pq.StringArray{a.String(), b.String()}, arr)
	require.Empty(t, UUIDArray(nil))
}

func TestNullConverters(t *testing.T) {
	id := uuid.New()
	require.Equal(t, &id, FromNullUUID(ToNullUUID(&id)))
	require.Nil(t, FromNullUUID(ToNullUUID(nil)))

	n := 7
	require.Equal(t, &n, FromSqlInt32(ToSqlInt32(&n)))
	require.False(t, ToSqlStringNonEmpty("").Valid)
	require.Equal(t, "x", FromSqlString(ToSqlStringNonEmpty("x"), ""))
}
