package report

// Descriptor identifies a report type and its display label.
type Descriptor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var descriptors = []Descriptor{
	{ID: TypeComplianceSummary, Label: "Compliance Summary"},
	{ID: TypeViolationDetails, Label: "Violation Details"},
	{ID: TypeAuditTrail, Label: "Audit Trail Log"},
	{ID: TypeRiskAssessment, Label: "Risk Assessment Report"},
}

// Types lists the registered report types in display order.
func Types() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup resolves a report type by id.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Label returns the display label for id, or id itself when unregistered.
func Label(id string) string {
	if d, ok := Lookup(id); ok {
		return d.Label
	}
	return id
}
