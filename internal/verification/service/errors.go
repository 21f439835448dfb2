package service

import (
	"context"
	"errors"

	"verigate/internal/gateways/documents"
	"verigate/internal/verification/models"
	"verigate/internal/verification/orchestrator"
	"verigate/internal/verification/providers"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/sentinel"
)

// translate maps verification and store errors onto domain error codes.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	var (
		de          *dErrors.Error
		unsupported *orchestrator.UnsupportedProviderError
		capability  *orchestrator.UnsupportedCapabilityError
	)
	switch {
	case errors.As(err, &de):
		return err
	case errors.As(err, &unsupported):
		return dErrors.Wrap(err, dErrors.CodeNotFound, unsupported.Error())
	case errors.As(err, &capability):
		return dErrors.Wrap(err, dErrors.CodeUnsupported, capability.Error())
	case errors.Is(err, models.ErrInvalidRequest), errors.Is(err, documents.ErrInvalidDocument):
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	case providers.IsNotFound(err):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}

	switch models.ErrorKindOf(err) {
	case models.KindTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	case models.KindAuthentication, models.KindNetwork, models.KindHTTP,
		models.KindNormalization, models.KindProvider:
		// Upstream provider trouble, not ours.
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
