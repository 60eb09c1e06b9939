package models

import "time"

// Session is one dashboard user's working set of loaded tables
type Session struct {
	ID        string       `json:"id"`
	Tables    []NamedTable `json:"tables"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Names returns the table names in load order
func (s *Session) Names() []string {
	names := make([]string, len(s.Tables))
	for i, nt := range s.Tables {
		names[i] = nt.Name
	}
	return names
}
