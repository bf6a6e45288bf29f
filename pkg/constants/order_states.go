package constants

// Order assignment states. An order enters broadcasting only through the
// broadcast dispatch mode and leaves it through the first accepted offer or
// the expiry sweep.
const (
	OrderStateUnassigned       = "unassigned"
	OrderStateBroadcasting     = "broadcasting"
	OrderStateAssignedInternal = "assigned_internal"
	OrderStateAssignedExternal = "assigned_external"
	OrderStateExpired          = "expired"
)

// Reason codes of a non-applied assignment result.
const (
	ReasonNoSettings        = "no_settings"
	ReasonModeNotAuto       = "mode_not_auto"
	ReasonNoCandidates      = "no_candidates"
	ReasonPersistenceError  = "persistence_error"
	ReasonStalePrecondition = "stale_precondition"
)

// Outcomes of a broadcast accept call.
const (
	AcceptOutcomeAccepted        = "accepted"
	AcceptOutcomeAlreadyResolved = "already_resolved"
)
