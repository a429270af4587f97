package prompts

import (
	"bytes"
	"text/template"
)

// PromptData carries the values spliced into the system prompt on
// turn 0 step 2 ("splice the task description into the
// system prompt").
type PromptData struct {
	Instruction string
}

// Generate renders baseTemplate with data. Used for both the Worker
// and Reflector system prompts — same mechanism, different template.
func Generate(baseTemplate string, data PromptData) (string, error) {
	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
