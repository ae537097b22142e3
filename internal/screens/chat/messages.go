package chat

import sess "github.com/abhisek/docchat/internal/session"

// chatUpdatedMsg carries the result of a service call made in the
// background. Snap is zero when the call failed before reaching a chat.
type chatUpdatedMsg struct {
	Snap sess.Snapshot
	Err  error
}
