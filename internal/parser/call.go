package parser

import (
	"strings"

	"guiagent/internal/domain/entity"
)

// paramSpec describes one formal parameter of an agent verb: its
// canonical (snake_case) name, the camelCase alias the binder also
// accepts, and whether it's required.
type paramSpec struct {
	name     string
	alias    string
	required bool
}

func (p paramSpec) matches(name string) bool {
	return name == p.name || name == p.alias
}

var verbParams = map[entity.ActionVerb][]paramSpec{
	entity.VerbClick: {
		{name: "description", required: true},
		{name: "num_clicks", alias: "numClicks"},
		{name: "button"},
		{name: "hold_keys", alias: "holdKeys"},
	},
	entity.VerbType: {
		{name: "description"},
		{name: "text", required: true},
		{name: "overwrite"},
		{name: "enter"},
	},
	entity.VerbScroll: {
		{name: "description", required: true},
		{name: "clicks", required: true},
		{name: "horizontal"},
	},
	entity.VerbDragAndDrop: {
		{name: "start_desc", alias: "startDesc", required: true},
		{name: "end_desc", alias: "endDesc", required: true},
		{name: "hold_keys", alias: "holdKeys"},
	},
	entity.VerbHighlightTextSpan: {
		{name: "start_phrase", alias: "startPhrase", required: true},
		{name: "end_phrase", alias: "endPhrase", required: true},
		{name: "button"},
	},
	entity.VerbHotkey: {
		{name: "keys", required: true},
	},
	entity.VerbHoldAndPress: {
		{name: "hold_keys", alias: "holdKeys", required: true},
		{name: "press_keys", alias: "pressKeys", required: true},
	},
	entity.VerbWait: {
		{name: "seconds", required: true},
	},
	entity.VerbDone: {},
	entity.VerbFail: {},
	entity.VerbCallCodeAgent: {
		{name: "task"},
	},
	entity.VerbSwitchApplications: {
		{name: "app_code", alias: "appCode", required: true},
	},
	entity.VerbOpen: {
		{name: "app_or_filename", alias: "appOrFilename", required: true},
	},
	entity.VerbSaveToKnowledge: {
		{name: "notes", required: true},
	},
	entity.VerbSetCellValues: {
		{name: "values", required: true},
		{name: "app", required: true},
		{name: "sheet", required: true},
	},
}

var verbByName = func() map[string]entity.ActionVerb {
	m := make(map[string]entity.ActionVerb, len(verbParams))
	for v := range verbParams {
		m[string(v)] = v
	}
	return m
}()

// boundArg is one resolved (name, literal) pair after positional and
// keyword arguments have both been bound to parameter names.
type boundArg struct {
	spec paramSpec
	lit  literal
}

// ParseCall validates callText against the closed verb set and binds
// its arguments into a typed Action. callText is expected to look
// like "agent.<verb>(arg1, arg2, name=val, ...)" — exactly what
// ExtractCalls returns.
func ParseCall(callText string) (entity.Action, error) {
	callText = strings.TrimSpace(callText)

	const prefix = "agent."
	if !strings.HasPrefix(callText, prefix) {
		return entity.Action{}, errMalformedCall("call must start with 'agent.'")
	}

	openIdx := strings.IndexByte(callText, '(')
	if openIdx == -1 || !strings.HasSuffix(callText, ")") {
		return entity.Action{}, errMalformedCall("missing parentheses")
	}

	verbName := strings.TrimSpace(callText[len(prefix):openIdx])
	verb, ok := verbByName[verbName]
	if !ok {
		return entity.Action{}, errUnknownVerb(verbName)
	}

	argsText := callText[openIdx+1 : len(callText)-1]
	bound, err := bindArgs(verb, argsText)
	if err != nil {
		return entity.Action{}, err
	}

	return buildAction(verb, bound)
}

func bindArgs(verb entity.ActionVerb, argsText string) ([]boundArg, error) {
	specs := verbParams[verb]

	argsText = strings.TrimSpace(argsText)
	if argsText == "" {
		return checkRequired(verb, nil)
	}

	rawArgs, err := splitTopLevel(argsText, ',')
	if err != nil {
		return nil, err
	}

	var bound []boundArg
	seen := make(map[string]bool)
	positionalIdx := 0
	sawKeyword := false

	for _, raw := range rawArgs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if name, value, isKw := splitKeyword(raw); isKw {
			sawKeyword = true
			spec, ok := findParam(specs, name)
			if !ok {
				return nil, errBadArgument(string(verb), name, "unknown keyword argument")
			}
			lit, err := parseLiteral(value)
			if err != nil {
				return nil, err
			}
			if lit.kind == litNone {
				continue // explicit None ⇒ absent, matches default
			}
			bound = append(bound, boundArg{spec: spec, lit: lit})
			seen[spec.name] = true
			continue
		}

		if sawKeyword {
			return nil, errMalformedCall("positional argument follows keyword argument")
		}
		if positionalIdx >= len(specs) {
			return nil, errMalformedCall("too many positional arguments")
		}
		spec := specs[positionalIdx]
		positionalIdx++

		lit, err := parseLiteral(raw)
		if err != nil {
			return nil, err
		}
		if lit.kind == litNone {
			continue // explicit None ⇒ absent, matches default
		}
		bound = append(bound, boundArg{spec: spec, lit: lit})
		seen[spec.name] = true
	}

	return checkRequired(verb, bound)
}

func checkRequired(verb entity.ActionVerb, bound []boundArg) ([]boundArg, error) {
	have := make(map[string]bool, len(bound))
	for _, b := range bound {
		have[b.spec.name] = true
	}
	for _, spec := range verbParams[verb] {
		if spec.required && !have[spec.name] {
			return nil, errMissingRequired(string(verb), spec.name)
		}
	}
	return bound, nil
}

func findParam(specs []paramSpec, name string) (paramSpec, bool) {
	for _, s := range specs {
		if s.matches(name) {
			return s, true
		}
	}
	return paramSpec{}, false
}

// splitKeyword splits "name=value" at the first top-level '=', but
// only when name looks like a bare identifier (so "a=='b'" style
// literal equality never misfires — not expected in this grammar but
// kept defensive).
func splitKeyword(raw string) (name, value string, ok bool) {
	eq := strings.IndexByte(raw, '=')
	if eq == -1 {
		return "", "", false
	}
	candidate := strings.TrimSpace(raw[:eq])
	if candidate == "" || !isIdentifier(candidate) {
		return "", "", false
	}
	return candidate, strings.TrimSpace(raw[eq+1:]), true
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// buildAction applies each verb's field defaults, then overlays the
// bound arguments, producing the final typed Action.
func buildAction(verb entity.ActionVerb, bound []boundArg) (entity.Action, error) {
	a := entity.DefaultAction(verb)

	for _, b := range bound {
		name := b.spec.name
		switch {
		case name == "description":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.Description = s
		case name == "num_clicks":
			n, ok := b.lit.asInt()
			if !ok || n < 1 {
				return a, errBadArgument(string(verb), name, "expected int >= 1")
			}
			a.NumClicks = n
		case name == "button":
			s, ok := b.lit.asString()
			if !ok || (s != "left" && s != "right" && s != "middle") {
				return a, errBadArgument(string(verb), name, "expected one of left|right|middle")
			}
			a.Button = entity.MouseButton(s)
		case name == "hold_keys":
			list, ok := b.lit.asStringList()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected list of strings")
			}
			a.HoldKeys = list
		case name == "text":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.Text = s
		case name == "overwrite":
			v, ok := b.lit.asBool()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected bool")
			}
			a.Overwrite = v
		case name == "enter":
			v, ok := b.lit.asBool()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected bool")
			}
			a.Enter = v
		case name == "clicks":
			n, ok := b.lit.asInt()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected int")
			}
			a.Clicks = n
		case name == "horizontal":
			v, ok := b.lit.asBool()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected bool")
			}
			a.Horizontal = v
		case name == "start_desc":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.StartDesc = s
		case name == "end_desc":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.EndDesc = s
		case name == "start_phrase":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.StartPhrase = s
		case name == "end_phrase":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.EndPhrase = s
		case name == "keys":
			list, ok := b.lit.asStringList()
			if !ok || len(list) == 0 {
				return a, errBadArgument(string(verb), name, "expected non-empty list of strings")
			}
			a.Keys = list
		case name == "press_keys":
			list, ok := b.lit.asStringList()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected list of strings")
			}
			a.PressKeys = list
		case name == "seconds":
			f, ok := b.lit.asFloat()
			if !ok || f < 0 {
				return a, errBadArgument(string(verb), name, "expected float >= 0")
			}
			a.Seconds = f
		case name == "task":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.Task = &s
		case name == "app_code":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.AppCode = s
		case name == "app_or_filename":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.AppOrFilename = s
		case name == "notes":
			list, ok := b.lit.asStringList()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected list of strings")
			}
			a.Notes = list
		case name == "values":
			m, ok := b.lit.asCellValueMap()
			if !ok || len(m) == 0 {
				return a, errBadArgument(string(verb), name, "expected non-empty map literal of cell_ref to scalar, e.g. {\"A1\": 3}")
			}
			a.Values = m
		case name == "app":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.App = s
		case name == "sheet":
			s, ok := b.lit.asString()
			if !ok {
				return a, errBadArgument(string(verb), name, "expected string")
			}
			a.Sheet = s
		}
	}

	if a.Verb == entity.VerbHotkey {
		if _, ok := normalizeKeys(a.Keys); !ok {
			return a, errBadArgument(string(verb), "keys", "must not be empty")
		}
	}

	return a, nil
}

func normalizeKeys(keys []string) ([]string, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	return keys, true
}
