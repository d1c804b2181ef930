package errors

import (
	stderrors "errors"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/google/uuid"
)

// Error codes used across wpstack.
const (
	CodeClientNotInstalled = "CLIENT_NOT_INSTALLED"
	CodeNoConnectionFound  = "NO_CONNECTION_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeSiteExists         = "SITE_EXISTS"
	CodeSiteNotFound       = "SITE_NOT_FOUND"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeExternalCommand    = "EXTERNAL_COMMAND_FAILED"
	CodeDiagnosticsFailed  = "DIAGNOSTICS_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
)

// Database client errors

func NewClientNotInstalledError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeClientNotInstalled, message, errors.SeverityHigh)
}

func NewNoConnectionFoundError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeNoConnectionFound, message, errors.SeverityHigh)
}

// User errors

func NewInvalidInputError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeInvalidInput, message, errors.SeverityMedium)
}

func NewSiteExistsError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeSiteExists, message, errors.SeverityMedium)
}

func NewSiteNotFoundError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeSiteNotFound, message, errors.SeverityMedium)
}

func NewConfigInvalidError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeConfigInvalid, message, errors.SeverityMedium)
}

func NewDiagnosticsFailedError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeDiagnosticsFailed, message, errors.SeverityMedium)
}

func NewInternalError(message string) *errors.ErrorEnvelope {
	return newEnvelope(CodeInternal, message, errors.SeverityCritical)
}

// WrapExternalCommand wraps a failed external command with the step it belonged to.
func WrapExternalCommand(err error, message string) *errors.ErrorEnvelope {
	envelope := newEnvelope(CodeExternalCommand, message, errors.SeverityHigh)
	return withWrappedError(envelope, err)
}

// WrapConfigInvalid wraps a settings load or decode failure.
func WrapConfigInvalid(err error, message string) *errors.ErrorEnvelope {
	envelope := newEnvelope(CodeConfigInvalid, message, errors.SeverityMedium)
	return withWrappedError(envelope, err)
}

// HasCode reports whether err is, or wraps, an envelope carrying code.
func HasCode(err error, code string) bool {
	var envelope *errors.ErrorEnvelope
	if !stderrors.As(err, &envelope) || envelope == nil {
		return false
	}
	return envelope.Code == code
}

// Message returns the envelope message when err is an envelope, else err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) && envelope != nil {
		return envelope.Message
	}
	return err.Error()
}

// EnsureEnvelope normalizes any error into a gofulmen ErrorEnvelope.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if err == nil {
		return newEnvelope(CodeInternal, "unexpected nil error", errors.SeverityCritical)
	}

	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) && envelope != nil {
		return envelope
	}

	return withWrappedError(newEnvelope(CodeInternal, err.Error(), errors.SeverityHigh), err)
}

func newEnvelope(code, message string, severity errors.Severity) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(code, message)
	if updated, err := envelope.WithSeverity(severity); err == nil {
		envelope = updated
	}
	return envelope.WithCorrelationID(uuid.New().String())
}

func withWrappedError(envelope *errors.ErrorEnvelope, err error) *errors.ErrorEnvelope {
	if envelope == nil || err == nil {
		return envelope
	}

	updated, updateErr := envelope.WithContext(map[string]interface{}{
		"wrapped_error": err.Error(),
	})
	if updateErr != nil {
		return envelope
	}
	return updated
}
