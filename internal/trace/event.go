package trace

import "time"

// Field is one key/value attachment on an event.
type Field struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	When    time.Time
	Level   Level
	Message string
	Fields  []Field
}

// F constructs a Field.
func F(key, value string) Field {
	return Field{Key: key, Value: value}
}
