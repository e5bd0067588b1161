package dualog

import (
	"github.com/sirupsen/logrus"
)

// LogrusHook mirrors logrus entries into a Logger, so code still logging
// through logrus reaches the same console and file sinks.
type LogrusHook struct {
	logger *Logger
	levels []logrus.Level
}

var _ logrus.Hook = (*LogrusHook)(nil)

// NewLogrusHook returns a hook forwarding entries of the given logrus levels
// to l. With no levels, every logrus level is forwarded.
//
// Example:
//
//	logrus.AddHook(dualog.NewLogrusHook(logger))
func NewLogrusHook(l *Logger, levels ...logrus.Level) *LogrusHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &LogrusHook{logger: l, levels: levels}
}

// Levels implements the logrus.Hook interface.
func (h *LogrusHook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements the logrus.Hook interface. Entry fields are appended to
// the message as a JSON object.
func (h *LogrusHook) Fire(e *logrus.Entry) error {
	msg := e.Message
	if len(e.Data) > 0 {
		fields := make(map[string]any, len(e.Data))
		for k, v := range e.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			fields[k] = v
		}
		msg += " " + JSON(fields).text()
	}
	h.logger.Log(severityFromLogrus(e.Level), Text(msg))
	return nil
}

func severityFromLogrus(level logrus.Level) Severity {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return ErrorIssuer
	case logrus.WarnLevel:
		return WarnIssuer
	case logrus.InfoLevel:
		return InfoIssuer
	default:
		return DebugIssuer
	}
}
