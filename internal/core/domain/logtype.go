package domain

// LogType is the severity of a log record.
type LogType uint8

const (
	// LogDefault is the level used when the caller does not pick one.
	LogDefault LogType = iota
	// LogInfo carries informative messages.
	LogInfo
	// LogDebug carries messages only useful while debugging.
	LogDebug
	// LogError reports recoverable failures.
	LogError
	// LogFault reports failures the process may not recover from.
	LogFault
)

// String returns the upper-case name of the log type.
func (t LogType) String() string {
	switch t {
	case LogDefault:
		return "DEFAULT"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	case LogError:
		return "ERROR"
	case LogFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// IsValid checks if the LogType is one of the known types.
func (t LogType) IsValid() bool {
	return t <= LogFault
}
