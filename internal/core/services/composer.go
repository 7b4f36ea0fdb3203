package services

import (
	"log/slog"

	"github.com/sufield/trustwire/internal/core/domain"
	"github.com/sufield/trustwire/internal/core/errors"
	"github.com/sufield/trustwire/internal/core/ports"
)

// CompositionOperator layers a call credential onto a channel credential,
// producing a new handle. Composition reads its inputs and never consumes
// them: both stay independently owned and independently usable afterwards.
type CompositionOperator struct {
	provider ports.SecurityProvider
	logger   *slog.Logger
	metrics  ports.MetricsReporter
}

// NewCompositionOperator creates an operator backed by the given security
// provider. logger and metrics may be nil.
func NewCompositionOperator(provider ports.SecurityProvider, logger *slog.Logger, metrics ports.MetricsReporter) *CompositionOperator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &CompositionOperator{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// Compose combines a channel credential with a call credential. Composing
// onto the insecure sentinel is meaningless — there is no transport security
// to attach per-call authentication to — and is rejected before the provider
// is consulted. A released channel handle is likewise rejected: its native
// object is gone and must not reach the provider.
func (o *CompositionOperator) Compose(channel *domain.CredentialHandle, call ports.CallCredential) (*domain.CredentialHandle, error) {
	if channel == nil {
		o.metrics.RecordComposition(false)
		return nil, &errors.ValidationError{
			Field:   "channel",
			Value:   nil,
			Message: "channel credential cannot be nil",
		}
	}
	if call == nil {
		o.metrics.RecordComposition(false)
		return nil, errors.ErrMissingCallCredential
	}
	if channel.IsInsecure() {
		o.metrics.RecordComposition(false)
		return nil, errors.ErrComposeInsecure
	}

	native, err := channel.Native()
	if err != nil {
		o.metrics.RecordComposition(false)
		return nil, err
	}

	composite, err := o.provider.BuildComposite(native, call)
	if err != nil {
		o.metrics.RecordComposition(false)
		o.logger.Warn("composite credential construction failed",
			"channel_credential_id", channel.ID(),
			"error", err,
		)
		return nil, errors.NewDomainError(errors.ErrCredentialConstruction, err)
	}

	handle := domain.NewHandle(composite)
	o.metrics.RecordComposition(true)
	o.logger.Debug("created composite credential",
		"credential_id", handle.ID(),
		"channel_credential_id", channel.ID(),
	)
	return handle, nil
}
