package wsig

import (
	"errors"
	"fmt"
)

// ErrWsig is the root of every error returned by this package.
var ErrWsig = errors.New("wsig")

var (
	// ErrFormat is returned when the container violates the chunk layout or
	// uses an unsupported feature such as a compressed sample encoding.
	ErrFormat = fmt.Errorf("%w: format error", ErrWsig)
	// ErrCalibration is returned when the calibration dynamic is zero.
	ErrCalibration = fmt.Errorf("%w: calibration error", ErrWsig)
	// ErrRange is returned when a position lies outside the data chunk.
	ErrRange = fmt.Errorf("%w: position not in range", ErrWsig)
	// ErrUnsupported is returned by compatibility stubs and by write
	// operations that are not allowed in the current writer state.
	ErrUnsupported = fmt.Errorf("%w: unsupported operation", ErrWsig)
	// ErrClosed is returned by any operation on a closed Reader or Writer.
	ErrClosed = fmt.Errorf("%w: use of closed instance", ErrWsig)
)
