// internal/bus/levels.go
package bus

// Log record constants shared with the measurement server.
// These values define the protocol and MUST NOT be re-numbered.

// Level is the numeric severity of a log record.
type Level int

// ---- SEVERITIES ----

// LevelCritical marks failures that abort a run.
const LevelCritical Level = 50

// LevelError marks failed operations the run may survive.
const LevelError Level = 40

// LevelWarning marks rejected requests and degraded conditions.
const LevelWarning Level = 30

// LevelInfo marks routine progress messages.
const LevelInfo Level = 20

// LevelDebug marks diagnostic detail.
const LevelDebug Level = 10

// LevelNotSet is the zero severity.
const LevelNotSet Level = 0

// Record is one measurement log payload.
type Record struct {
	Level Level  `json:"level"`
	Msg   string `json:"msg"`
}
