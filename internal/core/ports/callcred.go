package ports

import (
	"google.golang.org/grpc/credentials"
)

// CallCredential is the external call-credentials collaborator. The core
// consumes it opaquely: all it needs is the native per-RPC credential handle
// to hand to the security provider's composite builder.
type CallCredential interface {
	// PerRPC yields the native call-credential handle.
	PerRPC() credentials.PerRPCCredentials
}
