package errors

// statusMessages holds the fixed, NUL-free English text for each status.
var statusMessages = map[Status]string{
	StatusOK:              "ok",
	StatusInvalidArgument: "invalid argument",
	StatusDecode:          "malformed game action encoding",
	StatusUnknownFormat:   "unknown wire format",
	StatusUnknownBuffer:   "buffer is not owned by the library",
	StatusTooLarge:        "buffer exceeds maximum length",
	StatusInternal:        "internal error",
}

// UnknownStatusMessage is returned by Message for unmapped status values.
const UnknownStatusMessage = "unknown status"

// Message returns the fixed message for a status.
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return UnknownStatusMessage
}

// Statuses lists every defined status in ascending order.
func Statuses() []Status {
	return []Status{
		StatusOK,
		StatusInvalidArgument,
		StatusDecode,
		StatusUnknownFormat,
		StatusUnknownBuffer,
		StatusTooLarge,
		StatusInternal,
	}
}
