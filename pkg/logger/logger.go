package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	var err error
	L, err = build(zapcore.InfoLevel, "stderr")
	if err != nil {
		panic(err)
	}
}

func build(level zapcore.Level, output string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{output}
	return config.Build(zap.AddCallerSkip(1))
}

// Setup 依設定重建全域 logger。console 模式下 log 寫入檔案，避免和選單輸出混在一起。
func Setup(level string, output string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	if output == "" {
		output = "stderr"
	}
	l, err := build(lvl, output)
	if err != nil {
		return err
	}
	_ = L.Sync()
	L = l
	return nil
}

// WithComponent 回傳帶有 component 欄位的 logger，供 storage、handler、service 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
