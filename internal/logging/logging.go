package logging

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Options — уровень и куда писать лог.
type Options struct {
	Debug   bool
	Quiet   bool
	LogFile string
}

// Setup настраивает глобальный logrus. Возвращает функцию закрытия
// файла лога (no-op, если файла нет).
func Setup(o Options) func() error {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case o.Debug:
		logrus.SetLevel(logrus.DebugLevel)
	case o.Quiet:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	if o.LogFile == "" {
		logrus.SetOutput(os.Stderr)
		return func() error { return nil }
	}

	fileLogger := &lumberjack.Logger{
		Filename:   o.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, fileLogger))
	logrus.Debugf("Лог пишется также в %s", o.LogFile)
	return fileLogger.Close
}
