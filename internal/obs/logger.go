package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level  string
	Pretty bool
	App    string
	Env    string
	Ver    string
	// Output overrides zap's default sink (stderr), e.g. a file path.
	Output string
}

func NewLogger(c LogConfig) (*zap.Logger, error) {
	var cfg zap.Config
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	level := new(zapcore.Level)
	if err := level.Set(c.Level); err != nil {
		*level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(*level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if c.Output != "" {
		cfg.OutputPaths = []string{c.Output}
	}

	fields := []zap.Field{zap.String("service", c.App)}
	if c.Env != "" {
		fields = append(fields, zap.String("env", c.Env))
	}
	if c.Ver != "" {
		fields = append(fields, zap.String("version", c.Ver))
	}
	return cfg.Build(zap.Fields(fields...))
}
