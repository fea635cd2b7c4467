package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ModeSwipe          = "swipe"
	ModeSpeedChallenge = "speed_challenge"
)

// ValidMode reports whether mode is a known study mode.
func ValidMode(mode string) bool {
	return mode == ModeSwipe || mode == ModeSpeedChallenge
}

// StudySession is one completed study run. Accuracy and Score are derived
// from the counts by the scoring package at every write site.
type StudySession struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	DeckID         int64     `json:"deckId"`
	Mode           string    `json:"mode"`
	TotalCards     int       `json:"totalCards"`
	CorrectAnswers int       `json:"correctAnswers"`
	WrongAnswers   int       `json:"wrongAnswers"`
	TimeSpent      int       `json:"timeSpent"` // seconds
	Accuracy       int       `json:"accuracy"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MarshalJSON adds the legacy field names older clients still read.
func (s StudySession) MarshalJSON() ([]byte, error) {
	type plain StudySession
	return json.Marshal(struct {
		plain
		CorrectCount  int    `json:"correctCount"`
		WrongCount    int    `json:"wrongCount"`
		StudyMode     string `json:"studyMode"`
		FormattedTime string `json:"formattedTime"`
	}{
		plain:         plain(s),
		CorrectCount:  s.CorrectAnswers,
		WrongCount:    s.WrongAnswers,
		StudyMode:     s.Mode,
		FormattedTime: FormatDuration(s.TimeSpent),
	})
}

// FormatDuration renders seconds as "1h 2m 3s", "2m 3s" or "3s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
