package entity

// TrajectoryMeta is a snapshot of the Worker's conversation-length
// bookkeeping: how many turns have elapsed against the configured
// flush thresholds. Carried on TaskResult so a caller can tell how
// close a run came to its trajectory/image budget without reaching
// into the Worker itself.
type TrajectoryMeta struct {
	TurnCount           int
	MaxTrajectoryLength int
	MaxImages           int
}
