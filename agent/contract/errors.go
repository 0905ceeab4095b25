package contract

import "errors"

var (
	ErrStartup          = errors.New("startup failed")
	ErrTransport        = errors.New("transport failed")
	ErrToolInvocation   = errors.New("tool invocation failed")
	ErrToolLoopExceeded = errors.New("tool loop exceeded")
	ErrSchemaViolation  = errors.New("model response violates schema")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
)

// ErrorKind groups failures by what a caller should do about them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindStartupFailure
	KindTransportFailure
	KindToolInvocationFailure
	KindToolLoopExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindStartupFailure:
		return "startup_failure"
	case KindTransportFailure:
		return "transport_failure"
	case KindToolInvocationFailure:
		return "tool_invocation_failure"
	case KindToolLoopExceeded:
		return "tool_loop_exceeded"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A schema violation from the model counts as a
// transport failure: the upstream answered, but not with anything usable.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrStartup):
		return KindStartupFailure
	case errors.Is(err, ErrToolLoopExceeded):
		return KindToolLoopExceeded
	case errors.Is(err, ErrToolInvocation):
		return KindToolInvocationFailure
	case errors.Is(err, ErrTransport), errors.Is(err, ErrSchemaViolation):
		return KindTransportFailure
	default:
		return KindUnknown
	}
}
