// Package rpc holds the Connect plumbing shared by every league service:
// the JSON codec for plain Go messages, error mapping, and interceptors.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
)

// Codec marshals plain Go structs as JSON. It replaces connect's default
// protojson codec under the same "json" name, so clients speak the regular
// Connect JSON protocol (application/json).
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Route is one mounted procedure
type Route struct {
	Path    string
	Handler http.Handler
}

// Unary builds a Connect handler for fn that speaks JSON only
func Unary[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) Route {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return Route{Path: procedure, Handler: connect.NewUnaryHandler(procedure, fn, opts...)}
}

// Mount registers routes on mux
func Mount(mux *http.ServeMux, routes ...Route) {
	for _, r := range routes {
		mux.Handle(r.Path, r.Handler)
	}
}

// NewClient creates a unary JSON client for procedure on baseURL
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
