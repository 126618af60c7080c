package domain

// JobState is the shared state machine for both asynchronous job types
// (silent video render and audio/video merge).
//
// InProgress is the only non-terminal state. TimedOut is a local decision of
// the job monitor when its wall-clock budget runs out, never reported by the
// external service; Error means polling itself failed, as opposed to the
// external job reporting Failed.
type JobState string

const (
	JobSubmitted  JobState = "Submitted"
	JobInProgress JobState = "InProgress"
	JobCompleted  JobState = "Completed"
	JobFailed     JobState = "Failed"
	JobTimedOut   JobState = "TimedOut"
	JobError      JobState = "Error"
)

func (s JobState) Terminal() bool {
	return s != JobSubmitted && s != JobInProgress
}

// ExecutionStatusFor maps a terminal job state onto the overall execution
// status recorded after that stage.
func ExecutionStatusFor(state JobState) ExecutionStatus {
	switch state {
	case JobCompleted:
		return ExecutionCompleted
	case JobTimedOut:
		return ExecutionTimedOut
	case JobError:
		return ExecutionError
	default:
		return ExecutionFailed
	}
}

// StageMessageFor mirrors the per-status messages of the render lambda.
func StageMessageFor(stage string, state JobState) string {
	var verb string
	switch stage {
	case FinalVideoStage:
		verb = "Audio/video merge"
	default:
		verb = "Video generation"
	}
	switch state {
	case JobCompleted:
		return verb + " completed successfully"
	case JobFailed:
		return verb + " failed"
	case JobTimedOut:
		return verb + " monitoring timed out"
	default:
		return verb + " status: " + string(state)
	}
}
