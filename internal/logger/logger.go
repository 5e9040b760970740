package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init replaces Log. env "prod" selects JSON output; anything else gets the
// colored console encoder. An empty level keeps the config's default.
func Init(env, level string) error {
	var cfg zap.Config

	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
		if err != nil {
			return err
		}
		cfg.Level = lvl
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = l.Sugar()
	return nil
}

// Named returns a child of Log, resolved at call time so it follows Init.
func Named(name string) *zap.SugaredLogger {
	return Log.Named(name)
}

func Sync() {
	if Log == nil {
		return
	}

	_ = Log.Sync()
}
