package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init builds the global logger. Production gets JSON output, everything
// else gets the colored development encoder.
func Init(environment string) {
	var err error
	if environment == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = prodConfig.Build(zap.AddCallerSkip(1))
	} else {
		devConfig := zap.NewDevelopmentConfig()
		devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		log, err = devConfig.Build(zap.AddCallerSkip(1))
	}
	if err != nil {
		panic(err)
	}

	zap.ReplaceGlobals(log)
}

func GetLogger() *zap.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// fields turns loose trailing arguments into zap fields: errors become the
// "error" field, everything else lands under "detail".
func fields(args []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			out = append(out, zap.Error(v))
		case zap.Field:
			out = append(out, v)
		default:
			out = append(out, zap.Any("detail", v))
		}
	}
	return out
}

func Info(msg string, args ...interface{}) {
	GetLogger().Info(msg, fields(args)...)
}

func Warn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, fields(args)...)
}

func Error(msg string, args ...interface{}) {
	GetLogger().Error(msg, fields(args)...)
}

func Fatal(msg string, args ...interface{}) {
	GetLogger().Fatal(msg, fields(args)...)
}
