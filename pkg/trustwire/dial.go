package trustwire

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/sufield/trustwire/internal/adapters/secondary/grpctls"
)

// DialOptions expresses a credential as gRPC dial options so channel
// consumers can use the handle opaquely. An insecure credential maps to
// insecure transport credentials; SSL and composite credentials map to the
// options their native objects expose.
func DialOptions(cred *Credential) ([]grpc.DialOption, error) {
	if cred == nil {
		return nil, fmt.Errorf("credential cannot be nil")
	}
	if cred.IsInsecure() {
		return []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		}, nil
	}

	native, err := cred.Native()
	if err != nil {
		return nil, err
	}
	dialer, ok := native.(grpctls.DialOptioner)
	if !ok {
		return nil, fmt.Errorf("credential %T cannot express dial options", native)
	}
	return dialer.DialOptions(), nil
}
