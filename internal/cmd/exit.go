package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/observability"
)

// exitCodeFor maps an error envelope code to a semantic exit code.
func exitCodeFor(err error) foundry.ExitCode {
	switch {
	case err == nil:
		return foundry.ExitFailure
	case errwrap.HasCode(err, errwrap.CodeConfigInvalid):
		return foundry.ExitConfigInvalid
	case errwrap.HasCode(err, errwrap.CodeSiteNotFound):
		return foundry.ExitFileNotFound
	case errwrap.HasCode(err, errwrap.CodeClientNotInstalled),
		errwrap.HasCode(err, errwrap.CodeNoConnectionFound),
		errwrap.HasCode(err, errwrap.CodeExternalCommand):
		return foundry.ExitExternalServiceUnavailable
	default:
		return foundry.ExitFailure
	}
}

// exitOnError logs err with its semantic exit code and exits. It returns
// only when err is nil.
func exitOnError(msg string, err error) {
	if err == nil {
		return
	}
	ExitWithCode(observability.CLILogger, exitCodeFor(err), msg, errwrap.EnsureEnvelope(err))
}

func asEnvelope(err error) *errors.ErrorEnvelope {
	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) {
		return envelope
	}
	return nil
}

// envelopeFields returns the structured fields of an ErrorEnvelope plus the
// error that should be logged in its place.
func envelopeFields(err error) ([]zap.Field, error) {
	envelope := asEnvelope(err)
	if envelope == nil {
		return nil, err
	}
	fields := []zap.Field{
		zap.String("error_code", envelope.Code),
		zap.String("error_message", envelope.Message),
		zap.String("correlation_id", envelope.CorrelationID),
	}
	if envelope.Context != nil {
		fields = append(fields, zap.Any("error_context", envelope.Context))
	}
	if original, ok := envelope.Original.(error); ok && original != nil {
		return fields, original
	}
	return fields, err
}

// ExitWithCode logs msg and err with the foundry exit code metadata, then
// exits. A nil logger falls back to ExitWithCodeStderr.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	if logger == nil {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}

	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		os.Exit(int(exitCode))
	}

	fields := []zap.Field{
		zap.Int("exit_code", info.Code),
		zap.String("exit_name", info.Name),
		zap.String("exit_category", info.Category),
	}
	extra, logged := envelopeFields(err)
	fields = append(fields, extra...)
	if logged != nil {
		fields = append(fields, zap.Error(logged))
	}
	logger.Error(msg, fields...)

	os.Exit(info.Code)
}

// ExitWithCodeStderr writes msg and err to stderr and exits. Used before the
// logger exists.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		os.Exit(int(exitCode))
	}

	switch envelope := asEnvelope(err); {
	case envelope != nil:
		fmt.Fprintf(os.Stderr, "FATAL: %s [%s]: %s (correlation: %s)\n",
			msg, envelope.Code, envelope.Message, envelope.CorrelationID)
	case err != nil:
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	default:
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)

	os.Exit(info.Code)
}
