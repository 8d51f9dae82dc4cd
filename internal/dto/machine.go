package dto

// MachineDocument is the wire shape of a machine description.
// It uses "mapstructure" tags to match the document keys (white, initial,
// final, transitions) of both JSON and YAML sources.
type MachineDocument struct {
	White       string         `json:"white" mapstructure:"white"`
	Initial     string         `json:"initial" mapstructure:"initial"`
	Final       []string       `json:"final" mapstructure:"final"`
	Transitions []RuleDocument `json:"transitions" mapstructure:"transitions"`
	Description string         `json:"description,omitempty" mapstructure:"description"`
}

// RuleDocument is one entry of "transitions".
type RuleDocument struct {
	From  string `json:"from" mapstructure:"from"`
	Read  string `json:"read" mapstructure:"read"`
	To    string `json:"to" mapstructure:"to"`
	Write string `json:"write" mapstructure:"write"`
	Dir   string `json:"dir" mapstructure:"dir"`
}
