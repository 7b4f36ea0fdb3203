// Package callcreds provides call-credential sources that compose with
// channel credentials. Each source yields a native per-RPC handle consumed
// opaquely by the composition operator.
package callcreds

import (
	"context"
	"fmt"

	"google.golang.org/grpc/credentials"
)

// StaticToken is a call credential sending a fixed bearer token with every
// call. Tokens only travel over secure channels; the composition rules
// already forbid layering onto the insecure sentinel, and the per-RPC
// handle enforces the same requirement at the transport layer.
type StaticToken struct {
	token string
}

// NewStaticToken creates a bearer-token call credential.
func NewStaticToken(token string) (*StaticToken, error) {
	if token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}
	return &StaticToken{token: token}, nil
}

// PerRPC yields the native per-RPC credential handle.
func (s *StaticToken) PerRPC() credentials.PerRPCCredentials {
	return bearerPerRPC{token: s.token}
}

type bearerPerRPC struct {
	token string
}

func (b bearerPerRPC) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{
		"authorization": "Bearer " + b.token,
	}, nil
}

func (b bearerPerRPC) RequireTransportSecurity() bool {
	return true
}

// Metadata is a call credential attaching arbitrary per-call metadata.
type Metadata struct {
	md map[string]string
}

// NewMetadata creates a metadata call credential from a copy of md.
func NewMetadata(md map[string]string) (*Metadata, error) {
	if len(md) == 0 {
		return nil, fmt.Errorf("metadata cannot be empty")
	}
	copied := make(map[string]string, len(md))
	for k, v := range md {
		copied[k] = v
	}
	return &Metadata{md: copied}, nil
}

// PerRPC yields the native per-RPC credential handle.
func (m *Metadata) PerRPC() credentials.PerRPCCredentials {
	return metadataPerRPC{md: m.md}
}

type metadataPerRPC struct {
	md map[string]string
}

func (p metadataPerRPC) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return p.md, nil
}

func (p metadataPerRPC) RequireTransportSecurity() bool {
	return true
}
