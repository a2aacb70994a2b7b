package http

import (
	"context"
	"errors"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/internal/shared/transport"
)

func mapErrToClientCode(err error) int {
	switch {
	case err == nil:
		return transport.OK
	case errors.Is(err, app.ErrNotFound):
		return transport.NotFound
	case errors.Is(err, app.ErrForbidden):
		return transport.Forbidden
	case errors.Is(err, app.ErrInvalidCommand):
		return transport.InvalidCommand
	case errors.Is(err, app.ErrInsufficientTroops):
		return transport.InsufficientTroops
	case errors.Is(err, app.ErrInsufficientResources):
		return transport.InsufficientResources
	case errors.Is(err, app.ErrUnavailable):
		return transport.UpstreamUnavailable
	default:
		return transport.SystemError
	}
}

// HandleError 把应用层错误翻译成客户端业务码；
// 系统类错误不透出内部细节，只回统一话术。
func HandleError(ctx context.Context, err error) (int, string) {
	if reason := app.GetErrorReasonCode(err); reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	code := mapErrToClientCode(err)
	if code == transport.SystemError || code == transport.UpstreamUnavailable {
		return code, "系统繁忙，请稍后重试"
	}
	return code, app.GetErrorMessage(err)
}
