package model

// LogEntry is a single telemetry record. Entries are immutable once they
// have been handed to the ring buffer.
type LogEntry struct {
	Timestamp     float64                `json:"timestamp"`
	Level         Level                  `json:"level"`
	Message       string                 `json:"message"`
	Module        string                 `json:"module"`
	Function      string                 `json:"function"`
	Line          int                    `json:"line"`
	CorrelationId string                 `json:"correlation_id,omitempty"`
	UserId        string                 `json:"user_id,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
}

type Level string

const (
	DebugLevel   Level = "DEBUG"
	InfoLevel    Level = "INFO"
	WarningLevel Level = "WARNING"
	ErrorLevel   Level = "ERROR"
)

// BufferPolicy determines what happens to a write once the buffer is full.
type BufferPolicy string

const (
	DropOldest BufferPolicy = "drop_oldest"
	Block      BufferPolicy = "block"
	DropNewest BufferPolicy = "drop_newest"
)

// ParsePolicy maps a configured policy name to a BufferPolicy, defaulting
// to DropOldest for unknown names.
func ParsePolicy(name string) BufferPolicy {
	switch name {
	case string(Block):
		return Block
	case string(DropNewest):
		return DropNewest
	default:
		return DropOldest
	}
}
