package workflow

import "github.com/vilmerfrost/solvix/constants"

// Reduce folds an ordered event log into the current review status.
// The log is the source of truth; the mutable task row is a projection.
func Reduce(evs []TaskEvent) constants.ReviewStatus {
	status := constants.ReviewStatusNew
	for _, ev := range evs {
		switch ev.Type {
		case "task.created", "task.updated":
			if s, ok := ev.Payload["status"].(string); ok && s != "" {
				status = constants.ReviewStatus(s)
			}
		case "task.transition":
			if s, ok := ev.Payload["to"].(string); ok && s != "" {
				status = constants.ReviewStatus(s)
			}
		}
	}
	return status
}
