package worker

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"guiagent/internal/domain/entity"
)

// softTokenBudget is advisory only: crossing it never truncates a
// turn, it just tightens how aggressively flushTrajectory drops
// history on the next step. The Worker's hard bound remains
// maxTrajectoryLength/maxImages.
const softTokenBudget = 24000

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// tokenEncoder lazily loads the cl100k_base BPE, the same one the
// gpt-4 family reports usage in. Falls back to nil on load failure,
// in which case estimateTokens degrades to a byte/4 heuristic.
func tokenEncoder() *tiktoken.Tiktoken {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	return encoding
}

// estimateTokens gives a soft count of the conversation's size, used
// only to decide whether flushTrajectory should flush harder than its
// configured maxTrajectoryLength this step (short-context mode only;
// the long-context maxImages cap is never tightened). Image parts
// aren't tokenized by the encoder, so they're charged a flat estimate
// matching a typical high-detail vision tile.
func estimateTokens(messages []entity.Message) int {
	enc := tokenEncoder()
	total := 0
	for _, msg := range messages {
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case entity.TextPart:
				total += countTokens(enc, p.Text)
			case entity.ImagePart:
				total += 1100
			}
		}
	}
	return total
}

func countTokens(enc *tiktoken.Tiktoken, text string) int {
	if text == "" {
		return 0
	}
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// tightenedTrajectoryLength halves the configured round budget once
// the conversation crosses softTokenBudget, so a long-running task
// with verbose plans still converges instead of growing unbounded
// between hard flush points.
func tightenedTrajectoryLength(messages []entity.Message, configured int) int {
	if estimateTokens(messages) <= softTokenBudget {
		return configured
	}
	tightened := configured / 2
	if tightened < 2 {
		tightened = 2
	}
	return tightened
}
