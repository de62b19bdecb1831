package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init - Global zap logger'ı kurar. APP_ENV=production ise JSON,
// aksi halde console encoder kullanılır.
func Init() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("logger kurulamadı: " + err.Error())
	}
	log = l.Sugar()
}

// Log - Global logger'a erişim. Init çağrılmadıysa (testler) no-op logger döner.
func Log() *zap.SugaredLogger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return log
}
