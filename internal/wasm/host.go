package wasm

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// HostFunctionsImpl implements the functions guests may import from the
// "host" module. The calculator world needs none of them; they are an
// optional convenience, so a guest importing nothing still loads.
type HostFunctionsImpl struct {
	logger *zap.Logger
}

// NewHostFunctions creates a new host functions implementation.
func NewHostFunctions(logger *zap.Logger) *HostFunctionsImpl {
	return &HostFunctionsImpl{
		logger: logger.With(zap.String("component", "wasm-host")),
	}
}

// logMessage is called by Wasm modules to log messages.
// Signature: log_message(level, ptr, length)
// level: 0 = debug, 1 = info, 2 = warn, 3 = error
func (h *HostFunctionsImpl) logMessage(ctx context.Context, mod api.Module, level uint32, ptr uint32, length uint32) {
	msg, ok := NewMemory(mod).ReadBytes(ptr, length)
	if !ok {
		h.logger.Error("Failed to read log message from Wasm memory",
			zap.Uint32("ptr", ptr),
			zap.Uint32("length", length),
		)
		return
	}

	switch level {
	case 0:
		h.logger.Debug(string(msg))
	case 1:
		h.logger.Info(string(msg))
	case 2:
		h.logger.Warn(string(msg))
	case 3:
		h.logger.Error(string(msg))
	default:
		h.logger.Info(string(msg))
	}
}
