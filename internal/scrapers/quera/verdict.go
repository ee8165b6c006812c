package quera

import "strings"

type Verdict int

const (
	VERDICT_NEUTRAL Verdict = iota
	VERDICT_ACCEPTED
	VERDICT_WRONG_ANSWER
	VERDICT_TIME_LIMIT
)

func (v Verdict) String() string {
	switch v {
	case VERDICT_ACCEPTED:
		return "accepted"
	case VERDICT_WRONG_ANSWER:
		return "wrong-answer"
	case VERDICT_TIME_LIMIT:
		return "time-limit"
	default:
		return "neutral"
	}
}

// ClassifyLine tags a line of grading output, it only matches whole lines
// and never changes them.
func ClassifyLine(line string) Verdict {
	switch strings.TrimSpace(line) {
	case "ACCEPTED":
		return VERDICT_ACCEPTED
	case "WRONG ANSWER", "WRONG":
		return VERDICT_WRONG_ANSWER
	case "Time Limit Exceeded":
		return VERDICT_TIME_LIMIT
	default:
		return VERDICT_NEUTRAL
	}
}

// IsFullScore reports whether score is full marks, in latin or persian digits.
func IsFullScore(score string) bool {
	switch strings.TrimSpace(score) {
	case "100", "۱۰۰":
		return true
	default:
		return false
	}
}

func normalizeScore(score string) string {
	score = strings.TrimSpace(score)
	if score == COMPILE_ERROR_FA {
		return COMPILE_ERROR
	}
	return score
}
