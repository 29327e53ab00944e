package reservation

import (
	"strconv"
	"strings"
)

// ParseBoxID extracts the numeric box identifier from a raw, possibly aliased
// client value such as "box-3", "Box 3" or "3". Anything without digits is a
// hard validation failure; the old behavior of silently falling back to box 1
// masked client bugs and is gone.
func ParseBoxID(raw string) (int, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, ErrInvalidBox
	}

	id, err := strconv.Atoi(digits.String())
	if err != nil || id < 1 {
		return 0, ErrInvalidBox
	}
	return id, nil
}
