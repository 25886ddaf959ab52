package models

import "time"

// MaxTextLength bounds the text column in both storage engines.
const MaxTextLength = 500

// Todo represents a single to-do item as persisted and served over the API.
type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoUpdate is a partial-update payload. A nil field means "leave unchanged",
// which is distinct from a present zero value.
type TodoUpdate struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// HasChanges reports whether the payload carries at least one recognized field.
func (u TodoUpdate) HasChanges() bool {
	return u.Text != nil || u.Completed != nil
}
