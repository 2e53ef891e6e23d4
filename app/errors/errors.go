package errors

import (
	"errors"
	"log/slog"
)

// Log logs an error using the given logger, extracting metadata if it's a
// StructuredError. If logger is nil, the default slog logger is used.
func Log(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Error(err.Error())
		return
	}

	logger.Error(serr.Error(), serr.Attrs()...)
}
