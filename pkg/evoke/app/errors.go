package app

import "errors"

// ErrNilApplication is returned when a bootstrap is created without an
// application context.
var ErrNilApplication = errors.New("application must not be nil")

// ErrAlreadyBootstrapped is returned when Run is called on a bootstrap
// that already completed. Each bootstrap drives its phases exactly once.
var ErrAlreadyBootstrapped = errors.New("bootstrap already run")

// ErrBootstrapFailed is returned when Run is called on a bootstrap left
// in the failed state by an earlier attempt. There is no partial retry;
// build a new application and bootstrap instead.
var ErrBootstrapFailed = errors.New("bootstrap previously failed")
