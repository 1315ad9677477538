package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncEventsRecorded()
	IncEventsUndone()
	IncEventsRejected(reason string)
	ObserveMutationDuration(duration float64)
	IncSelectionsRun()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncEventsPublished()
	SetStartupTime(duration float64)
}

// Rejection reasons used as the reason label of IncEventsRejected.
const (
	ReasonValidation = "validation"
	ReasonState      = "state"
	ReasonNotFound   = "not_found"
	ReasonInternal   = "internal"
)
