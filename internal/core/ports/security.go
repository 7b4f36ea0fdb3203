// Package ports defines the interfaces between the credential core and its
// collaborators: the underlying security provider, call-credential sources,
// configuration, and observability. The core never touches TLS directly;
// adapters implement these ports.
package ports

import (
	"github.com/sufield/trustwire/internal/core/domain"
)

// VerificationHook is the registration a security provider installs on an SSL
// credential so the TLS handshake can consult caller-supplied verification
// logic. The provider calls Verify synchronously, once per peer certificate
// under evaluation, and calls Release from the native credential's own
// release path — never earlier, and never while a Verify call is in flight.
type VerificationHook interface {
	// Verify runs the registered verifier and translates its outcome into
	// the tri-state decision the TLS layer understands.
	Verify(serverName, certificate string) domain.Decision

	// Release frees the registration. Safe to call exactly once; the
	// provider anchors it to the native credential's destruction.
	Release()
}

// SecurityProvider is the underlying security library. It builds native
// credential objects and owns their release semantics; the core only decides
// which builds are allowed and wires the verification hook through.
type SecurityProvider interface {
	// BuildSSL constructs a native SSL credential from root CA bytes, an
	// optional key/cert pair, and an optional verification hook. A nil
	// rootCerts slice means "use the provider's default trust store".
	// On failure no native object is allocated and the hook is not owned
	// by anything provider-side.
	BuildSSL(rootCerts []byte, pair *domain.KeyCertPair, hook VerificationHook) (domain.NativeCredential, error)

	// BuildComposite layers a call credential onto a channel credential,
	// producing a new native object. The inputs remain owned by their
	// respective handles; releasing the composite must not release them.
	BuildComposite(channel domain.NativeCredential, call CallCredential) (domain.NativeCredential, error)
}
