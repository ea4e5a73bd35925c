package interactions

import "errors"

// ErrConcurrentToggle is returned by a Repository when its insert lost a race
// against a concurrent toggle of the same (post, user, type). The toggle is
// safe to retry: the retry observes the winner's record.
var ErrConcurrentToggle = errors.New("concurrent toggle on the same interaction")
