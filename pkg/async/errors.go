package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the future does not
	// complete before the deadline. The underlying computation keeps running.
	ErrTimeout = errors.New("async: await timed out")
)
