package youtube

import (
	"regexp"
	"strconv"
)

// shortMaxSeconds is the cutoff below which an upload counts as a short-form
// video rather than a regular upload.
const shortMaxSeconds = 60

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts the API's compact ISO-8601 duration encoding
// (PT2H5M30S, each field optional) to total seconds. Malformed input and
// absent fields parse to 0.
func ParseDuration(d string) int {
	m := durationPattern.FindStringSubmatch(d)
	if m == nil {
		return 0
	}
	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])
	return hours*3600 + minutes*60 + seconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
