package entities

// AssigneeKind tags the two unrelated handler kinds an order can be routed to.
type AssigneeKind string

const (
	AssigneeKindInternal AssigneeKind = "internal"
	AssigneeKindExternal AssigneeKind = "external"
)

// AssigneeRef is the tagged union the engine passes around: exactly one
// craftsman or one partner. It is flattened to two nullable columns only at
// the persistence boundary, never inside business logic.
type AssigneeRef struct {
	Kind AssigneeKind `json:"kind"`
	ID   int64        `json:"id"`
}

// Assignee is a routing candidate: the union tag plus the directory data the
// finder ranks on.
type Assignee struct {
	AssigneeRef
	Professions []string `json:"professions"`
	Verified    bool     `json:"verified"`
	Rating      float64  `json:"rating"`
	// ZipCoverage is declared coverage of external partners. Empty means the
	// partner declared no coverage data, which is not the same as non-coverage.
	ZipCoverage []string `json:"zip_coverage,omitempty"`
}

func (a Assignee) HasProfession(code string) bool {
	for _, p := range a.Professions {
		if p == code {
			return true
		}
	}
	return false
}

// CoversZip reports whether the declared coverage contains the prefix. True
// when no coverage data was declared at all.
func (a Assignee) CoversZip(prefix string) bool {
	if len(a.ZipCoverage) == 0 {
		return true
	}
	for _, z := range a.ZipCoverage {
		if z == prefix {
			return true
		}
	}
	return false
}

func CraftsmanAssignee(c *Craftsman) Assignee {
	return Assignee{
		AssigneeRef: AssigneeRef{Kind: AssigneeKindInternal, ID: c.ID},
		Professions: c.Professions,
		Verified:    c.Verified,
		Rating:      c.Rating,
	}
}

func PartnerAssignee(p *Partner) Assignee {
	return Assignee{
		AssigneeRef: AssigneeRef{Kind: AssigneeKindExternal, ID: p.ID},
		Professions: p.Professions,
		Verified:    p.Verified,
		Rating:      p.Rating,
		ZipCoverage: p.ZipCoverage,
	}
}
