package worker

import "guiagent/internal/domain/entity"

// FlushLongContext retains all text parts but keeps only the last
// maxImages image parts across the whole message slice: walk
// messages newest-to-oldest, count images, drop an ImagePart once the
// running count exceeds the cap, and never reorder or drop a message
// or a TextPart. Per.
func FlushLongContext(messages []entity.Message, maxImages int) []entity.Message {
	out := make([]entity.Message, len(messages))
	copy(out, messages)

	kept := 0
	for i := len(out) - 1; i >= 0; i-- {
		m := out[i]
		if m.ImageCount() == 0 {
			continue
		}

		parts := make([]entity.Part, 0, len(m.Parts))
		changed := false
		for _, p := range m.Parts {
			if _, isImage := p.(entity.ImagePart); isImage {
				if kept < maxImages {
					kept++
					parts = append(parts, p)
				} else {
					changed = true
				}
				continue
			}
			parts = append(parts, p)
		}
		if changed {
			out[i] = entity.Message{Role: m.Role, Parts: parts}
		}
	}
	return out
}

// FlushShortContext drops one full round (the user+assistant pair at
// index 1) whenever messages exceeds the given cap.
// maxCount is 2*max_trajectory_length+1 for the Worker, or
// max_trajectory_length+1 for the Reflector — the caller supplies the
// right one.
func FlushShortContext(messages []entity.Message, maxCount int) []entity.Message {
	if len(messages) <= maxCount {
		return messages
	}
	// index 0 is the system prompt; drop the round right after it.
	dropFrom := 1
	dropTo := dropFrom + 2
	if dropTo > len(messages) {
		dropTo = len(messages)
	}

	out := make([]entity.Message, 0, len(messages)-(dropTo-dropFrom))
	out = append(out, messages[:dropFrom]...)
	out = append(out, messages[dropTo:]...)
	return out
}
