// Package semver parses dotted version strings into fixed-arity numeric
// tuples so comparisons are total and stable. Parsing never fails: any
// non-numeric run in a segment contributes zero, so a broken manifest
// degrades to 0.0.0 and reports "up to date" instead of crashing a check.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

const arity = 3

// Version is an ordered tuple of non-negative integers. Shorter strings are
// padded with zeros and longer ones truncated, so "1.2" == "1.2.0".
type Version [arity]int

// Parse converts a dotted version string into a Version. It never fails.
func Parse(s string) Version {
	var v Version
	for i, segment := range strings.Split(s, ".") {
		if i >= arity {
			break
		}
		v[i] = digitsOf(segment)
	}
	return v
}

// Compare returns -1, 0 or +1 comparing a against b component by component.
func Compare(a, b Version) int {
	for i := 0; i < arity; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// digitsOf extracts the numeric value of a segment by keeping only its
// digit characters, e.g. "2rc1" becomes 21 and "beta" becomes 0.
func digitsOf(segment string) int {
	var sb strings.Builder
	for _, ch := range segment {
		if ch >= '0' && ch <= '9' {
			sb.WriteRune(ch)
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(sb.String())
	if err != nil {
		return 0
	}
	return n
}
