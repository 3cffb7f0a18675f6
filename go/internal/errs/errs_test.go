package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	base := Ownership("pick %d is not yours", 3)
	wrapped := fmt.Errorf("failed to create trade: %w", base)

	require.Equal(t, KindOwnership, KindOf(wrapped))
	require.True(t, Is(wrapped, KindOwnership))
	require.False(t, Is(wrapped, KindValidation))
	require.Equal(t, "failed to create trade: pick 3 is not yours", wrapped.Error())
}

func TestKindOfPlainError(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.False(t, Is(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("serialization failure")
	err := Wrap(KindStorageConflict, cause, "storage conflict")

	require.ErrorIs(t, err, cause)
	require.Equal(t, KindStorageConflict, KindOf(err))
	require.Equal(t, "storage conflict: serialization failure", err.Error())
	require.Equal(t, "storage_conflict", KindStorageConflict.String())
}
