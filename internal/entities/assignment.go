package entities

// Assignment is the outcome of one engine invocation. Advisory to the caller:
// a non-applied result must never fail order creation.
type Assignment struct {
	Applied      bool         `json:"applied"`
	AssigneeID   int64        `json:"assignee_id,omitempty"`
	AssigneeType AssigneeKind `json:"assignee_type,omitempty"`
	Reason       string       `json:"reason,omitempty"`
}

func AppliedAssignment(ref AssigneeRef) Assignment {
	return Assignment{Applied: true, AssigneeID: ref.ID, AssigneeType: ref.Kind}
}

func SkippedAssignment(reason string) Assignment {
	return Assignment{Applied: false, Reason: reason}
}
