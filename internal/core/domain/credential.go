package domain

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/sufield/trustwire/internal/core/errors"
)

// NativeCredential is the opaque credential object produced by the underlying
// security provider. Release frees whatever the provider allocated for it,
// including any verification hook anchored to it. Callers never invoke
// Release directly; the owning CredentialHandle does, exactly once.
type NativeCredential interface {
	Release()
}

// CredentialHandle is an immutable, exclusively-owned wrapper around a native
// credential object. A nil native reference is the insecure sentinel: it
// represents "no transport security" and is never passed to a release
// routine. Handles are created by the credential factory or the composition
// operator and released by Close, which runs the native release exactly once.
type CredentialHandle struct {
	id       string
	native   NativeCredential
	insecure bool

	releaseOnce sync.Once
	released    atomic.Bool
}

// NewInsecureHandle wraps the insecure sentinel. It never fails.
func NewInsecureHandle() *CredentialHandle {
	return &CredentialHandle{
		id:       uuid.NewString(),
		insecure: true,
	}
}

// NewHandle wraps a native credential produced by the security provider.
// The handle takes sole ownership of the native object.
func NewHandle(native NativeCredential) *CredentialHandle {
	return &CredentialHandle{
		id:     uuid.NewString(),
		native: native,
	}
}

// ID returns the correlation identifier used in logs and metrics.
func (h *CredentialHandle) ID() string {
	return h.id
}

// IsInsecure reports whether this handle wraps the insecure sentinel.
func (h *CredentialHandle) IsInsecure() bool {
	return h.insecure
}

// Released reports whether Close has already run.
func (h *CredentialHandle) Released() bool {
	return h.released.Load()
}

// Native returns the wrapped native credential. It fails once the handle has
// been released: handing out a reference to a freed native object would let
// callers reach memory the provider no longer guarantees.
func (h *CredentialHandle) Native() (NativeCredential, error) {
	if h.released.Load() {
		return nil, errors.ErrCredentialReleased
	}
	return h.native, nil
}

// Close releases the native credential exactly once. Further calls are
// no-ops, so double release is structurally impossible. Closing an insecure
// handle only marks it released; there is no native object to free.
func (h *CredentialHandle) Close() error {
	h.releaseOnce.Do(func() {
		h.released.Store(true)
		if h.native != nil {
			h.native.Release()
		}
	})
	return nil
}
