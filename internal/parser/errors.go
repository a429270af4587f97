package parser

import "fmt"

// ParseError is the error surface the Worker's format loop retries
// against. Every variant carries a short, human-readable Feedback
// string meant to be fed straight back to the model.
type ParseError struct {
	Kind     string
	Verb     string
	Arg      string
	Detail   string
	feedback string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.feedback)
}

// Feedback is the retry message shown to the model, distinct from
// Error() which is the Go-idiomatic diagnostic string.
func (e *ParseError) Feedback() string {
	return e.feedback
}

func errUnknownVerb(verb string) *ParseError {
	return &ParseError{
		Kind: "UnknownVerb",
		Verb: verb,
		feedback: fmt.Sprintf(
			"agent.%s is not a recognized action. Emit exactly one call to one of the allowed agent verbs.",
			verb,
		),
	}
}

func errMalformedCall(detail string) *ParseError {
	return &ParseError{
		Kind:   "MalformedCall",
		Detail: detail,
		feedback: fmt.Sprintf(
			"Could not parse the agent call: %s. Emit exactly one well-formed agent.<verb>(...) call.",
			detail,
		),
	}
}

func errBadArgument(verb, arg, detail string) *ParseError {
	return &ParseError{
		Kind: "BadArgument",
		Verb: verb,
		Arg:  arg,
		feedback: fmt.Sprintf(
			"Argument '%s' to agent.%s(...) is invalid: %s.",
			arg, verb, detail,
		),
	}
}

func errMissingRequired(verb, arg string) *ParseError {
	return &ParseError{
		Kind: "MissingRequired",
		Verb: verb,
		Arg:  arg,
		feedback: fmt.Sprintf(
			"agent.%s(...) is missing required argument '%s'.",
			verb, arg,
		),
	}
}
