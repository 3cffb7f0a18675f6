package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

// ErrorKindHeader carries the errs.Kind of a failed call
const ErrorKindHeader = "X-Error-Kind"

// Code maps an error kind to its Connect code
func Code(kind errs.Kind) connect.Code {
	switch kind {
	case errs.KindValidation, errs.KindOwnership:
		return connect.CodeInvalidArgument
	case errs.KindNotFound:
		return connect.CodeNotFound
	case errs.KindForbidden:
		return connect.CodePermissionDenied
	case errs.KindInvalidState:
		return connect.CodeFailedPrecondition
	case errs.KindUnauthorized:
		return connect.CodeUnauthenticated
	case errs.KindConflict:
		return connect.CodeAlreadyExists
	default:
		return connect.CodeInternal
	}
}

// Error converts an application error into a Connect error. Internal errors
// are logged and replaced by a generic message; every other kind is returned
// to the caller verbatim.
func Error(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	kind := errs.KindOf(err)
	code := Code(kind)
	if code == connect.CodeInternal {
		log.Error().Err(err).Str("kind", kind.String()).Msg("request failed")
		msg := "internal error"
		if kind == errs.KindStorageConflict {
			msg = "the operation conflicted with a concurrent change, please retry"
		}
		cerr := connect.NewError(code, errors.New(msg))
		cerr.Meta().Set(ErrorKindHeader, kind.String())
		return cerr
	}
	cerr := connect.NewError(code, err)
	cerr.Meta().Set(ErrorKindHeader, kind.String())
	return cerr
}
