package settings

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidQuestionsPerSession is returned for a session length outside
// AllowedQuestionsPerSession.
var ErrInvalidQuestionsPerSession = errors.New("invalid questions per session")

// AllowedQuestionsPerSession lists the practice session lengths a learner
// can choose.
var AllowedQuestionsPerSession = []int{10, 20, 30}

// DefaultQuestionsPerSession is the practice session length for new learners.
const DefaultQuestionsPerSession = 10

// Settings are the learner's preferences.
type Settings struct {
	QuestionsPerSession int  `json:"questions_per_session"`
	TimerEnabled        bool `json:"timer_enabled"`
	SoundEnabled        bool `json:"sound_enabled"`
}

// Default returns the settings of a new learner.
func Default() Settings {
	return Settings{
		QuestionsPerSession: DefaultQuestionsPerSession,
		TimerEnabled:        true,
		SoundEnabled:        true,
	}
}

// Validate checks that s can be saved.
func (s Settings) Validate() error {
	if !slices.Contains(AllowedQuestionsPerSession, s.QuestionsPerSession) {
		return fmt.Errorf("%w: %d (allowed %v)", ErrInvalidQuestionsPerSession, s.QuestionsPerSession, AllowedQuestionsPerSession)
	}
	return nil
}

// Normalize replaces an invalid session length with the default.
func (s Settings) Normalize() Settings {
	if s.Validate() != nil {
		s.QuestionsPerSession = DefaultQuestionsPerSession
	}
	return s
}
