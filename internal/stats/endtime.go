package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSessionDurationMin is used when a session has no explicit end time
// and the caller passes a non-positive duration.
const DefaultSessionDurationMin = 120

// EndTime returns the explicit end time when present, otherwise start plus
// durationMin, wrapped past midnight, as zero-padded "HH:MM".
func EndTime(start, explicit string, durationMin int) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if durationMin <= 0 {
		durationMin = DefaultSessionDurationMin
	}
	h, m, err := parseHHMM(start)
	if err != nil {
		return "", err
	}
	total := (h*60 + m + durationMin) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func parseHHMM(s string) (h, m int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	h, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q: %w", s, err)
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return h, m, nil
}
