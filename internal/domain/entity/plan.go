package entity

import "github.com/google/uuid"

// PlanRecord is the append-only record the Worker produces each step:
// the raw model text, the code it extracted, the Action it parsed,
// the Reflector's advisory text (if any), and the primitives the
// Grounder compiled from the Action.
type PlanRecord struct {
	ID                  string
	StepIndex           int
	RawText             string
	ExtractedCode       string
	ParsedAction        Action
	ReflectionText      string
	ReflectionThoughts  string
	CompiledPrimitives  []Primitive
}

// NewPlanRecord stamps a fresh correlation ID for a step's plan.
func NewPlanRecord(stepIndex int) PlanRecord {
	return PlanRecord{ID: uuid.NewString(), StepIndex: stepIndex}
}
