package session

import (
	"time"

	sess "github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
)

// sessionInitMsg is sent when the session plan is ready.
type sessionInitMsg struct {
	State *sess.State
	Err   error
}

// timerTickMsg is sent every second while a timed session runs.
type timerTickMsg time.Time

// explanationMsg carries a generated explanation.
type explanationMsg struct {
	QuestionID string
	Text       string
	Err        error
}

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
