// Package logging provides secure logging utilities with automatic redaction of key material.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RedactedValue is the placeholder for redacted sensitive data.
const RedactedValue = "[REDACTED]"

// RedactorHandler wraps an slog.Handler so that private keys, certificates,
// and tokens never reach log output, by field name or by PEM-shaped value.
type RedactorHandler struct {
	handler         slog.Handler
	sensitiveFields map[string]bool
}

// NewRedactorHandler creates a new handler that redacts sensitive fields.
func NewRedactorHandler(handler slog.Handler) *RedactorHandler {
	return &RedactorHandler{
		handler: handler,
		sensitiveFields: map[string]bool{
			"private_key":   true,
			"privatekey":    true,
			"key":           true,
			"cert":          true,
			"certificate":   true,
			"cert_chain":    true,
			"root_certs":    true,
			"token":         true,
			"secret":        true,
			"credentials":   true,
			"authorization": true,
			"bearer":        true,
		},
	}
}

// Enabled implements slog.Handler.
func (h *RedactorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler with sensitive data redaction.
func (h *RedactorHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.Record{
		Time:    record.Time,
		Level:   record.Level,
		Message: record.Message,
		PC:      record.PC,
	}

	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(h.redactAttr(attr))
		return true
	})

	if err := h.handler.Handle(ctx, newRecord); err != nil {
		return fmt.Errorf("redactor handle failed: %w", err)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RedactorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redactedAttrs := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redactedAttrs[i] = h.redactAttr(attr)
	}
	return &RedactorHandler{
		handler:         h.handler.WithAttrs(redactedAttrs),
		sensitiveFields: h.sensitiveFields,
	}
}

// WithGroup implements slog.Handler.
func (h *RedactorHandler) WithGroup(name string) slog.Handler {
	return &RedactorHandler{
		handler:         h.handler.WithGroup(name),
		sensitiveFields: h.sensitiveFields,
	}
}

// redactAttr redacts sensitive attributes by key name or PEM-shaped value.
func (h *RedactorHandler) redactAttr(attr slog.Attr) slog.Attr {
	if h.isSensitiveField(attr.Key) {
		return slog.Attr{
			Key:   attr.Key,
			Value: slog.StringValue(RedactedValue),
		}
	}

	if attr.Value.Kind() == slog.KindString && looksLikePEM(attr.Value.String()) {
		return slog.Attr{
			Key:   attr.Key,
			Value: slog.StringValue(RedactedValue),
		}
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupAttrs := attr.Value.Group()
		redacted := make([]any, 0, len(groupAttrs))
		for _, ga := range groupAttrs {
			redacted = append(redacted, h.redactAttr(ga))
		}
		return slog.Group(attr.Key, redacted...)
	}

	return attr
}

// isSensitiveField checks whether the attribute key names sensitive material.
func (h *RedactorHandler) isSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	if h.sensitiveFields[lower] {
		return true
	}
	for field := range h.sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// looksLikePEM detects PEM blocks so raw key or certificate bytes passed as
// values are caught even under an innocuous key name.
func looksLikePEM(value string) bool {
	return strings.Contains(value, "-----BEGIN ")
}
