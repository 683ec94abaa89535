package orgnr

import (
	"regexp"
	"strconv"
)

// Optional century prefix, three 2-digit groups, optional separator,
// 3-digit serial and a check digit.
var structurePattern = regexp.MustCompile(`^(\d{2})?(\d{2})(\d{2})(\d{2})([-+]?)(\d{3})(\d)$`)

const (
	// requiredPrefix is the only century prefix an organization number may carry.
	requiredPrefix = 16
	// minGroupB keeps digits 3-4 above any month so numbers never read as birthdates.
	minGroupB = 20
	// minGroupA rejects a leading zero in the first two digits.
	minGroupA = 10
)

// matchStructure checks the positional rules and returns the 10 digits with
// prefix and separator removed. The checksum is not verified here.
func matchStructure(input string) (string, bool) {
	m := structurePattern.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	prefix, a, b, c, d, check := m[1], m[2], m[3], m[4], m[6], m[7]

	if prefix != "" && groupValue(prefix) != requiredPrefix {
		return "", false
	}
	if groupValue(b) < minGroupB {
		return "", false
	}
	if groupValue(a) < minGroupA {
		return "", false
	}

	return a + b + c + d + check, true
}

// groupValue converts a capture that the pattern guarantees is all digits.
func groupValue(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic("orgnr: non-digit capture " + strconv.Quote(s))
	}
	return n
}
