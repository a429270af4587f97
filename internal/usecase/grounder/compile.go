package grounder

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"guiagent/internal/domain/entity"
)

const defaultDragDuration = 0.5 // seconds; its DragAndDrop/HighlightTextSpan carry no duration field

// Compile implements the compilation table of. currentInstruction
// is the task-level instruction, used as the CallCodeAgent default when
// Action.Task is nil.
func (g *Grounder) Compile(ctx context.Context, action entity.Action, obs entity.Observation, currentInstruction string) ([]entity.Primitive, error) {
	switch action.Verb {
	case entity.VerbClick:
		return g.compileClick(ctx, action, obs)
	case entity.VerbType:
		return g.compileType(ctx, action, obs)
	case entity.VerbScroll:
		return g.compileScroll(ctx, action, obs)
	case entity.VerbDragAndDrop:
		return g.compileDragAndDrop(ctx, action, obs)
	case entity.VerbHighlightTextSpan:
		return g.compileHighlightTextSpan(ctx, action, obs)
	case entity.VerbHotkey:
		return []entity.Primitive{entity.Hotkey(action.Keys...)}, nil
	case entity.VerbHoldAndPress:
		return g.compileHoldAndPress(action), nil
	case entity.VerbWait:
		return []entity.Primitive{entity.Sleep(action.Seconds)}, nil
	case entity.VerbDone, entity.VerbFail:
		return nil, nil
	case entity.VerbCallCodeAgent:
		return g.compileCallCodeAgent(ctx, action, currentInstruction)
	case entity.VerbSwitchApplications:
		return g.platform.SwitchApplicationsSequence(action.AppCode), nil
	case entity.VerbOpen:
		return g.platform.OpenSequence(action.AppOrFilename), nil
	case entity.VerbSaveToKnowledge:
		g.knowledge.Append(action.Notes...)
		return nil, nil
	case entity.VerbSetCellValues:
		return g.compileSetCellValues(ctx, action)
	default:
		return nil, fmt.Errorf("compile: unhandled verb %q", action.Verb)
	}
}

func (g *Grounder) compileClick(ctx context.Context, action entity.Action, obs entity.Observation) ([]entity.Primitive, error) {
	point, err := g.ResolvePoint(ctx, action.Description, obs)
	if err != nil {
		return nil, err
	}

	click := entity.Click(point, action.NumClicks, action.Button)
	if len(action.HoldKeys) == 0 {
		return []entity.Primitive{click}, nil
	}

	prims := make([]entity.Primitive, 0, len(action.HoldKeys)*2+1)
	for _, k := range action.HoldKeys {
		prims = append(prims, entity.KeyDown(k))
	}
	prims = append(prims, click)
	for i := len(action.HoldKeys) - 1; i >= 0; i-- {
		prims = append(prims, entity.KeyUp(action.HoldKeys[i]))
	}
	return prims, nil
}

func (g *Grounder) compileType(ctx context.Context, action entity.Action, obs entity.Observation) ([]entity.Primitive, error) {
	var prims []entity.Primitive

	if action.Description != "" {
		point, err := g.ResolvePoint(ctx, action.Description, obs)
		if err != nil {
			return nil, err
		}
		prims = append(prims, entity.Click(point, 1, entity.ButtonLeft))
	}

	if action.Overwrite {
		prims = append(prims, entity.Hotkey(g.platform.SelectAllModifier(), "a"), entity.PressBackspace())
	}

	if isASCII(action.Text) {
		prims = append(prims, entity.TypeText(action.Text))
	} else {
		prims = append(prims, entity.ClipboardSet(action.Text), entity.Hotkey(g.platform.SelectAllModifier(), "v"))
	}

	if action.Enter {
		prims = append(prims, entity.PressEnter())
	}
	return prims, nil
}

func (g *Grounder) compileScroll(ctx context.Context, action entity.Action, obs entity.Observation) ([]entity.Primitive, error) {
	point, err := g.ResolvePoint(ctx, action.Description, obs)
	if err != nil {
		return nil, err
	}
	return []entity.Primitive{entity.Scroll(point, action.Clicks, action.Horizontal)}, nil
}

func (g *Grounder) compileDragAndDrop(ctx context.Context, action entity.Action, obs entity.Observation) ([]entity.Primitive, error) {
	start, startErr := g.ResolvePoint(ctx, action.StartDesc, obs)
	end, endErr := g.ResolvePoint(ctx, action.EndDesc, obs)
	if err := multierr.Append(startErr, endErr); err != nil {
		return nil, err
	}

	drag := entity.Drag(start, end, defaultDragDuration, entity.ButtonLeft)
	if len(action.HoldKeys) == 0 {
		return []entity.Primitive{drag}, nil
	}

	prims := make([]entity.Primitive, 0, len(action.HoldKeys)*2+1)
	for _, k := range action.HoldKeys {
		prims = append(prims, entity.KeyDown(k))
	}
	prims = append(prims, drag)
	for i := len(action.HoldKeys) - 1; i >= 0; i-- {
		prims = append(prims, entity.KeyUp(action.HoldKeys[i]))
	}
	return prims, nil
}

func (g *Grounder) compileHighlightTextSpan(ctx context.Context, action entity.Action, obs entity.Observation) ([]entity.Primitive, error) {
	start, startErr := g.ResolveText(ctx, action.StartPhrase, AlignStart, obs)
	end, endErr := g.ResolveText(ctx, action.EndPhrase, AlignEnd, obs)
	if err := multierr.Append(startErr, endErr); err != nil {
		return nil, err
	}
	return []entity.Primitive{entity.Drag(start, end, defaultDragDuration, action.Button)}, nil
}

func (g *Grounder) compileHoldAndPress(action entity.Action) []entity.Primitive {
	prims := make([]entity.Primitive, 0, len(action.Keys)+len(action.PressKeys)+len(action.Keys))
	for _, k := range action.Keys {
		prims = append(prims, entity.KeyDown(k))
	}
	for _, k := range action.PressKeys {
		prims = append(prims, entity.PressKey(k))
	}
	for i := len(action.Keys) - 1; i >= 0; i-- {
		prims = append(prims, entity.KeyUp(action.Keys[i]))
	}
	return prims
}

func (g *Grounder) compileCallCodeAgent(ctx context.Context, action entity.Action, currentInstruction string) ([]entity.Primitive, error) {
	if g.codeAgent == nil {
		return nil, fmt.Errorf("compile: call_code_agent requested but no CodeAgentRunner configured")
	}
	task := currentInstruction
	if action.Task != nil {
		task = *action.Task
	}

	report, err := g.codeAgent.Run(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("call_code_agent: %w", err)
	}
	g.lastCodeAgentResult = report
	return nil, nil
}

func (g *Grounder) compileSetCellValues(ctx context.Context, action entity.Action) ([]entity.Primitive, error) {
	if g.spreadsheet == nil {
		return nil, fmt.Errorf("compile: set_cell_values requested but no SpreadsheetDriverPort configured")
	}
	if err := g.spreadsheet.SetCellValues(ctx, action.App, action.Sheet, action.Values); err != nil {
		return nil, fmt.Errorf("set_cell_values: %w", err)
	}
	return nil, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
