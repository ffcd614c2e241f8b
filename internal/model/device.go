package model

// Device is the config-bearing entity. Read-only from the event core;
// ownership stays with the external cache.
type Device struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	UniqueID string `json:"unique_id,omitempty"`
	GroupID  int64  `json:"group_id,omitempty"`
	Status   string `json:"status,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

// Group carries group-level attribute overrides. Groups may nest via GroupID.
type Group struct {
	ID      int64  `json:"id"`
	Name    string `json:"name,omitempty"`
	GroupID int64  `json:"group_id,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty"`
}
