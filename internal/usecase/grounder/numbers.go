package grounder

import "regexp"

var intPattern = regexp.MustCompile(`\d+`)

// firstTwoInts parses the first two integers appearing anywhere in
// text: resolve_point asks the model to answer with exactly an x,y pair.
func firstTwoInts(text string) (x, y int, ok bool) {
	matches := intPattern.FindAllString(text, -1)
	if len(matches) < 2 {
		return 0, 0, false
	}
	return atoi(matches[0]), atoi(matches[1]), true
}

// lastInt parses the last integer appearing in text: resolve_text asks
// the model to end its answer with the matched element's id.
func lastInt(text string) (int, bool) {
	matches := intPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return atoi(matches[len(matches)-1]), true
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
