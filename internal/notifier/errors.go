package notifier

import "errors"

// ErrQueueFull marks a notification dropped because the queue was saturated.
var ErrQueueFull = errors.New("notification queue full")
