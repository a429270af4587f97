package prompts

import (
	_ "embed"
)

//go:embed worker_system.txt
var WorkerSystemTemplate string

//go:embed reflector_system.txt
var ReflectorSystemTemplate string
