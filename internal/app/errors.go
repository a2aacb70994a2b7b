package app

import (
	"errors"

	"AgeOfTribes/modules/kit/errx"
)

// Code 表示应用层错误码（对外协议语义）。
type Code = errx.Code

const (
	CodeNotFound              Code = "GAME_NOT_FOUND"
	CodeForbidden             Code = "GAME_FORBIDDEN"
	CodeInvalidCommand        Code = "GAME_INVALID_COMMAND"
	CodeInsufficientTroops    Code = "GAME_INSUFFICIENT_TROOPS"
	CodeInsufficientResources Code = "GAME_INSUFFICIENT_RESOURCES"
	// CodeInternalServer 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeInternalServer Code = errx.CodeInternal
	// CodeUnavailable 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeUnavailable Code = errx.CodeUnavailable
)

// Error 复用通用错误模型：对外语义(code/msg)、上下文(data)、溯源链(cause)、系统错误一次栈(stack)。
type Error = errx.Error

// NewError 创建业务类错误（不捕获栈）。
func NewError(code Code, msg string) *Error {
	return errx.NewBiz(code, msg)
}

// Wrap 创建系统类错误并挂载 cause（系统错误会在第一次 wrap/转换处捕获一次栈）。
func Wrap(code Code, msg string, cause error) *Error {
	return errx.NewSys(code, msg).WithCause(cause)
}

// 常用错误定义（哨兵错误）：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrNotFound              = errx.NewBiz(CodeNotFound, "目标不存在")
	ErrForbidden             = errx.NewBiz(CodeForbidden, "无权操作该对象")
	ErrInvalidCommand        = errx.NewBiz(CodeInvalidCommand, "指令不合法")
	ErrInsufficientTroops    = errx.NewBiz(CodeInsufficientTroops, "兵力不足")
	ErrInsufficientResources = errx.NewBiz(CodeInsufficientResources, "资源不足")
	ErrInternalServer        = errx.ErrInternal
	ErrUnavailable           = errx.ErrUnavailable
)

func GetErrorReasonCode(err error) string {
	var rp interface{ Reason() string }
	if !errors.As(err, &rp) {
		return ""
	}
	return rp.Reason()
}

func GetErrorMessage(err error) string {
	var mp interface{ Msg() string }
	if !errors.As(err, &mp) {
		return ""
	}
	return mp.Msg()
}
