package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/vytor/flashdeck/internal/models"
)

// Number is an integer field that accepts JSON numbers, numeric strings and
// null. Anything it cannot read as an integer decodes as absent.
type Number struct {
	Value int
	Valid bool
}

// Int returns a present Number.
func Int(v int) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if v, ok := leadingInt(s); ok {
			*n = Int(v)
		}
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	*n = Int(int(f))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Value)), nil
}

// leadingInt parses an optional sign followed by decimal digits at the start
// of s, ignoring leading whitespace: "12abc" reads as 12, "abc" as absent.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	if end-digits > 9 {
		if s[0] == '-' {
			return math.MinInt32, true
		}
		return math.MaxInt32, true
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// RawSession is a session submission as clients send it. Several field names
// are aliases kept for older clients.
type RawSession struct {
	DeckID         Number `json:"deckId"`
	CorrectCount   Number `json:"correctCount"`
	CorrectAnswers Number `json:"correctAnswers"`
	WrongCount     Number `json:"wrongCount"`
	TotalCards     Number `json:"totalCards"`
	Mode           string `json:"mode"`
	StudyMode      string `json:"studyMode"`
	TimeSpent      Number `json:"timeSpent"`
	Score          Number `json:"score"`
}

// NormalizedSession is a submission with aliases resolved and every count
// coerced to a non-negative integer.
type NormalizedSession struct {
	DeckID    int64
	Correct   int
	Wrong     int
	Total     int
	Mode      string
	TimeSpent int
	Score     *int
}

// Normalize resolves the alias fields of raw:
//   - correct is the first present of correctCount, correctAnswers (default 0)
//   - wrong is wrongCount (default 0)
//   - total is totalCards when present, else correct+wrong
//   - mode is the first non-empty of mode, studyMode (default swipe)
//
// Negative counts become 0. Mode is lowercased but not validated.
func Normalize(raw RawSession) NormalizedSession {
	n := NormalizedSession{
		Correct:   nonNegative(firstValid(raw.CorrectCount, raw.CorrectAnswers)),
		Wrong:     nonNegative(raw.WrongCount),
		TimeSpent: nonNegative(raw.TimeSpent),
		Mode:      models.ModeSwipe,
	}
	if raw.DeckID.Valid && raw.DeckID.Value > 0 {
		n.DeckID = int64(raw.DeckID.Value)
	}
	if raw.TotalCards.Valid {
		n.Total = nonNegative(raw.TotalCards)
	} else {
		n.Total = n.Correct + n.Wrong
	}
	if m := firstNonEmpty(raw.Mode, raw.StudyMode); m != "" {
		n.Mode = strings.ToLower(m)
	}
	if raw.Score.Valid {
		s := Clamp(raw.Score.Value)
		n.Score = &s
	}
	return n
}

// Consistent reports whether the answered cards fit within the total.
func (n NormalizedSession) Consistent() bool {
	return n.Correct+n.Wrong <= n.Total
}

// Accuracy is the derived accuracy percentage of the session.
func (n NormalizedSession) Accuracy() int {
	return Accuracy(n.Correct, n.Total)
}

// FinalScore is the explicit score if one was sent, else the accuracy.
func (n NormalizedSession) FinalScore() int {
	return Score(n.Correct, n.Total, n.Score)
}

func firstValid(nums ...Number) Number {
	for _, n := range nums {
		if n.Valid {
			return n
		}
	}
	return Number{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonNegative(n Number) int {
	if !n.Valid || n.Value < 0 {
		return 0
	}
	return n.Value
}
