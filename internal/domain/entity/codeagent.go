package entity

// CodeStepRecord is one step of the Code sub-agent's bounded loop.
type CodeStepRecord struct {
	StepIndex  int
	Language   string // "python" or "bash"
	Code       string
	Status     string // "ok" | "error" | "timeout"
	ReturnCode int
	Output     string
	Error      string
}

// CodeAgentReport is the structured summary the Code sub-agent hands
// back to the Worker via CallCodeAgent.
type CodeAgentReport struct {
	TaskInstruction  string
	CompletionReason string // "DONE" | "FAIL" | "BUDGET_EXHAUSTED_AFTER_N_STEPS"
	Summary          string
	ExecutionHistory []CodeStepRecord
	StepsExecuted    int
	Budget           int
}
