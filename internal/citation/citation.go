// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation parses and checks positional [Source N] markers.
// N is the 1-based position of a source in the ordered list that was handed
// to the summarizer; it is not a stable source identifier.
package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// markerPattern matches a literal citation marker: [Source N].
var markerPattern = regexp.MustCompile(`\[Source (\d+)\]`)

// Marker formats the citation marker for position n.
func Marker(n int) string {
	return fmt.Sprintf("[Source %d]", n)
}

// Markers returns every cited position in text, in order of appearance,
// including repeats.
func Markers(text string) []int {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	positions := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Overflowing digit runs can never be a valid position.
			n = -1
		}
		positions = append(positions, n)
	}
	return positions
}

// OutOfRange returns the distinct cited positions outside 1..numSources,
// sorted ascending.
func OutOfRange(text string, numSources int) []int {
	seen := make(map[int]bool)
	var bad []int
	for _, n := range Markers(text) {
		if (n < 1 || n > numSources) && !seen[n] {
			seen[n] = true
			bad = append(bad, n)
		}
	}
	sort.Ints(bad)
	return bad
}

// Validate returns an error naming every marker that does not resolve to a
// source position.
func Validate(text string, numSources int) error {
	bad := OutOfRange(text, numSources)
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("summary cites %v but only %d source(s) exist", bad, numSources)
}
