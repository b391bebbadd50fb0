package cpu

import "errors"

var (
	ErrNoWorld          = errors.New("cpu tracer: no world geometry uploaded")
	ErrNoCamera         = errors.New("cpu tracer: no camera uploaded")
	ErrNotInitialized   = errors.New("cpu tracer: tracer not initialized")
	ErrInvalidBlock     = errors.New("cpu tracer: block lies outside the frame")
	ErrFrameBufferSize  = errors.New("cpu tracer: frame buffer size does not match frame dimensions")
	ErrRequestDropped   = errors.New("cpu tracer: request processor did not receive block request")
	ErrUnsupportedValue = errors.New("cpu tracer: unsupported update payload")
)
