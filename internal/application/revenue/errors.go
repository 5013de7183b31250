package revenue

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// boundaryError is applied to every error leaving a service method. Domain
// errors pass through; anything else is logged and replaced by ErrInternal
// so driver messages never reach the client.
func boundaryError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	log := logger.L(ctx).With(zap.String("operation", op))

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case shared.CodeInternal:
			log.Error("operation failed", zap.Error(err))
		default:
			log.Warn("operation rejected", zap.String("code", domainErr.Code), zap.Error(err))
		}
		return err
	}

	log.Error("operation failed", zap.Error(err))
	return shared.ErrInternal
}
