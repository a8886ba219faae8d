package pokeapi

import (
	"regexp"
	"strconv"
)

var (
	idSegment        = regexp.MustCompile(`/(\d+)/`)
	machineIDSegment = regexp.MustCompile(`/machine/(\d+)/`)
)

// ExtractID returns the numeric identifier embedded in a resource's own URL,
// taken from the first "/<digits>/" path segment
// (".../pokemon-species/133/" yields 133). ok is false when the URL does
// not follow that convention. Identifiers are not guaranteed contiguous.
func ExtractID(resourceURL string) (id int, ok bool) {
	return matchID(idSegment, resourceURL)
}

// ExtractMachineID returns the identifier of a ".../machine/<digits>/" URL.
func ExtractMachineID(machineURL string) (id int, ok bool) {
	return matchID(machineIDSegment, machineURL)
}

// IDOrZero is ExtractID with the silent zero default: a malformed URL
// yields 0, which cannot be told apart from a genuine "/0/" segment. Prefer
// ExtractID wherever the difference matters.
func IDOrZero(resourceURL string) int {
	id, _ := ExtractID(resourceURL)
	return id
}

func matchID(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
