package zerror

// Status classifies a ZError independently of any transport.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusValidationFailed
	StatusInvalidInput
	StatusStorageFailed
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusValidationFailed:
		return "VALIDATION_FAILED"
	case StatusInvalidInput:
		return "INVALID_INPUT"
	case StatusStorageFailed:
		return "STORAGE_FAILED"
	case StatusInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}
