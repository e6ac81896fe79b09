package models

// CounterpartInfo describes the curator on the other side of a chat session.
type CounterpartInfo struct {
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

// Record describes a chat session that was just created, as carried across one
// page navigation.
type Record struct {
	SessionID     string          `json:"sessionId"`
	CounterpartID int64           `json:"counterpartId"`
	Counterpart   CounterpartInfo `json:"counterpartInfo"`
}

// IsZero reports whether the record carries no session.
func (r Record) IsZero() bool {
	return r.SessionID == ""
}

// Source tells where a destination page got its chat session from.
type Source string

const (
	SourceHandoff Source = "handoff"
	SourceRemote  Source = "remote"
)
