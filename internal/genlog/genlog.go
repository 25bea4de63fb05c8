// Package genlog provides the single structured-logging entry point used
// across the generator. Library code never constructs a logger itself; the
// CLI builds one here and threads it down through constructors, mirroring
// VIIPER's cmd/viiper/viiper.go -> internal/log.SetupLogger -> ctx.Bind wiring.
package genlog

import "go.uber.org/zap"

// New builds a production logger, or a development one (human-readable,
// caller-annotated) when verbose is true.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Noop returns a logger that discards everything, for callers (mostly tests)
// that don't want to thread a *zap.Logger through every constructor call.
func Noop() *zap.Logger {
	return zap.NewNop()
}
