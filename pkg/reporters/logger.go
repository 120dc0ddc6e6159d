package reporters

import "github.com/Najib632/Polly-API/internal/logger"

// Logger is the structured logger reporters write delivery diagnostics to.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return &logger.NopLogger{}
	}
	return log
}
