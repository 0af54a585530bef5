package postcard

// Fields carries structured context for a log record.
type Fields map[string]any

// Logger is the leveled logging contract of the components around the codec
// (golden store, fixture tooling). The codec itself never logs. Wrap your
// logging stack with one of the adapters under log/.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything. It is the default wherever a Logger is
// optional.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
