package rpc

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Observer receives one call per handled RPC
type Observer interface {
	RecordRPC(procedure, code string, d time.Duration)
}

// ObserveInterceptor logs every handled RPC and reports it to obs
func ObserveInterceptor(obs Observer, clock clockwork.Clock) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}
			start := clock.Now()
			res, err := next(ctx, req)
			elapsed := clock.Since(start)

			code := "ok"
			var ce *connect.Error
			if errors.As(err, &ce) {
				code = ce.Code().String()
			} else if err != nil {
				code = connect.CodeUnknown.String()
			}
			if obs != nil {
				obs.RecordRPC(req.Spec().Procedure, code, elapsed)
			}

			ev := log.Debug()
			if err != nil {
				ev = log.Info().Err(err)
			}
			ev.Str("procedure", req.Spec().Procedure).
				Str("code", code).
				Dur("elapsed", elapsed).
				Msg("rpc")
			return res, err
		}
	}
}
