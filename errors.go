package planes

import "errors"

var (
	// ErrNilPlane is returned when a node is constructed without a plane.
	ErrNilPlane = errors.New("plane is nil")
	// ErrPlaneNotFound is returned when a registry lookup misses.
	ErrPlaneNotFound = errors.New("plane not found")
	// ErrUnmapped is returned when framebuffer memory is touched while unmapped.
	ErrUnmapped = errors.New("framebuffer not mapped")
	// ErrMapped is returned when a plane is reallocated while its memory is mapped.
	ErrMapped = errors.New("framebuffer is mapped")
	// ErrInvalidScale is returned for scale factors that are not finite and positive.
	ErrInvalidScale = errors.New("invalid scale factor")
	// ErrInvalidGeometry is returned for non-positive framebuffer or window sizes.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownSequence is returned when a sprite is asked for a sequence it does not have.
	ErrUnknownSequence = errors.New("unknown sequence")
	// ErrDeviceClosed is returned by planes whose device has been closed.
	ErrDeviceClosed = errors.New("device closed")
	// ErrUnsupported is returned by drivers for registers the hardware lacks.
	ErrUnsupported = errors.New("unsupported by device")
)
