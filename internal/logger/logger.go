package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger. Production environments get the JSON
// encoder, everything else the human friendly development one.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
