package undo_action

import (
	"context"

	undoAction "github.com/m04kA/SMC-DropInService/internal/usecase/undo_action"
)

type UndoUseCase interface {
	Execute(ctx context.Context, req *undoAction.Request) (*undoAction.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
