package structs

type Status string

const (
	// transient states
	RUNNING Status = "RUNNING"

	// end states
	SUCCEEDED Status = "SUCCEEDED"
	FAILED    Status = "FAILED"
	CANCELLED Status = "CANCELLED"
)

func IsFinalStatus(status Status) bool {
	switch status {
	case SUCCEEDED, FAILED, CANCELLED:
		return true
	default:
		return false
	}
}
