package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	rangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// maxPatternRooms bounds how many rooms a single pattern may expand to.
const maxPatternRooms = 1000

// RoomPattern expands a bulk room pattern such as "101-110, 201, A3" into
// unique room numbers, preserving first-seen order. Ranges are inclusive and
// may be written in either direction.
func RoomPattern(pattern string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(num string) error {
		if _, ok := seen[num]; ok {
			return nil
		}
		if len(out) >= maxPatternRooms {
			return fmt.Errorf("pattern %q expands to more than %d rooms", pattern, maxPatternRooms)
		}
		seen[num] = struct{}{}
		out = append(out, num)
		return nil
	}

	for _, seg := range strings.Split(pattern, ",") {
		seg = strings.TrimSpace(spaceRe.ReplaceAllString(seg, " "))
		if seg == "" {
			continue
		}
		if m := rangeRe.FindStringSubmatch(seg); m != nil {
			start, errStart := strconv.Atoi(m[1])
			end, errEnd := strconv.Atoi(m[2])
			if errStart != nil || errEnd != nil {
				return nil, fmt.Errorf("invalid range %q", seg)
			}
			if start > end {
				start, end = end, start
			}
			if end-start >= maxPatternRooms {
				return nil, fmt.Errorf("range %q is too large", seg)
			}
			for i := start; i <= end; i++ {
				if err := add(strconv.Itoa(i)); err != nil {
					return nil, err
				}
			}
			continue
		}
		if strings.Contains(seg, "-") {
			return nil, fmt.Errorf("invalid range %q", seg)
		}
		if err := add(seg); err != nil {
			return nil, err
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("pattern %q contains no room numbers", pattern)
	}
	return out, nil
}

// Floor infers the floor from a room number: 305 is on floor 3. Numbers that
// are not numeric, or below 100, land on floor 1.
func Floor(roomNumber string) int {
	n, err := strconv.Atoi(strings.TrimSpace(roomNumber))
	if err != nil || n/100 <= 0 {
		return 1
	}
	return n / 100
}

// CompareRoomNumbers orders room numbers naturally, so "2" sorts before "10"
// and "A2" before "A10".
func CompareRoomNumbers(a, b string) int {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		if ad && bd {
			ra, restA := leadingRun(a, true)
			rb, restB := leadingRun(b, true)
			na := strings.TrimLeft(ra, "0")
			nb := strings.TrimLeft(rb, "0")
			if len(na) != len(nb) {
				return cmpInt(len(na), len(nb))
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			// "2" before "002"
			if len(ra) != len(rb) {
				return cmpInt(len(ra), len(rb))
			}
			a, b = restA, restB
			continue
		}
		if ad != bd {
			if ad {
				return -1
			}
			return 1
		}
		ra, restA := leadingRun(a, false)
		rb, restB := leadingRun(b, false)
		if c := strings.Compare(strings.ToLower(ra), strings.ToLower(rb)); c != 0 {
			return c
		}
		a, b = restA, restB
	}
	return cmpInt(len(a), len(b))
}

func leadingRun(s string, digits bool) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
