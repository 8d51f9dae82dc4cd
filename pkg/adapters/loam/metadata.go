package loam

// MachineMetadata is the front matter of a machine document.
// State and symbol fields stay untyped so numeric ids survive whichever
// decoder the repository uses; the compiler normalizes them.
type MachineMetadata struct {
	ID          string           `json:"id" mapstructure:"id"`
	White       any              `json:"white" mapstructure:"white"`
	Initial     any              `json:"initial" mapstructure:"initial"`
	Final       []any            `json:"final" mapstructure:"final"`
	Transitions []map[string]any `json:"transitions" mapstructure:"transitions"`

	// Description overrides the document body when set.
	Description string `json:"description" mapstructure:"description"`
}

// document rebuilds the generic machine document the compiler expects.
func (m MachineMetadata) document(body string) map[string]any {
	raw := make(map[string]any)
	if m.White != nil {
		raw["white"] = m.White
	}
	if m.Initial != nil {
		raw["initial"] = m.Initial
	}
	if m.Final != nil {
		raw["final"] = m.Final
	}
	if m.Transitions != nil {
		rules := make([]any, len(m.Transitions))
		for i, t := range m.Transitions {
			rules[i] = t
		}
		raw["transitions"] = rules
	}

	desc := m.Description
	if desc == "" {
		desc = body
	}
	if desc != "" {
		raw["description"] = desc
	}
	return raw
}
