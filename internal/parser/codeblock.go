package parser

import "regexp"

// fencedBlockPattern matches a fenced code block: triple backtick,
// optional language tag, body (dot matches newline), triple backtick.
// Non-greedy so a single regexp pass over text with several fenced
// blocks yields each block as its own match.
var fencedBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\\n?(.*?)```")

// ParseCodeBlock extracts the last fenced code block in modelOutput.
// Returns ok=false if no fenced block is present.
func ParseCodeBlock(modelOutput string) (code string, ok bool) {
	matches := fencedBlockPattern.FindAllStringSubmatch(modelOutput, -1)
	if len(matches) == 0 {
		return "", false
	}
	last := matches[len(matches)-1]
	return last[1], true
}
