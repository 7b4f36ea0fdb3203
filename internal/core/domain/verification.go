package domain

// Decision is the tri-state outcome of a peer verification call, translated
// at the boundary with the TLS layer. The distinction between Reject and
// Error is load-bearing: a handshake that fails because the peer was
// explicitly rejected is diagnosed differently from one that fails because
// the verification logic itself malfunctioned.
type Decision int

const (
	// DecisionAccept means the verifier accepted the peer certificate.
	DecisionAccept Decision = 0
	// DecisionReject means the verifier explicitly rejected the peer.
	DecisionReject Decision = 1
	// DecisionError means the verifier panicked while executing.
	DecisionError Decision = 2
)

// String returns a label suitable for logs and metrics.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionReject:
		return "reject"
	case DecisionError:
		return "error"
	default:
		return "unknown"
	}
}

// PeerVerifier is caller-supplied logic deciding whether to trust a peer
// certificate presented during the TLS handshake. serverName and certificate
// may be empty when the TLS layer did not present them. Returning nil accepts
// the peer; returning an error rejects it. The call is synchronous from the
// handshake's point of view: the handshake blocks until the verifier returns,
// and no timeout is applied, so a non-returning verifier stalls the handshake
// permanently.
type PeerVerifier func(serverName, certificate string) error
