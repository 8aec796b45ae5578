// Package logging builds the zap-backed ectologger used by the resolver
package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
)

// New creates a logger at the given level. Pretty selects the development
// console encoder instead of JSON.
func New(level string, pretty bool) (ectologger.Logger, error) {
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	if pretty {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = atom

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

// NewNop returns a logger that discards everything
func NewNop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}
