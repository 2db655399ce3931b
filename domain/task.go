package domain

import (
	"strings"
	"time"
)

// Task represents a user-owned activity item. The JSON shape mirrors the
// store row so records pass through the API unchanged.
type Task struct {
	ID          int       `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskDraft carries the caller-supplied fields for a new task.
type TaskDraft struct {
	Title       string
	Description *string
	Completed   *bool
}

// TaskPatch is a partial update built from only the fields present in the
// request body. Nil pointer fields are left untouched by the store;
// ClearDesc writes an explicit null.
type TaskPatch struct {
	Title       *string
	Description *string
	ClearDesc   bool
	Completed   *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.ClearDesc && p.Completed == nil
}

// Fields renders the patch as store column assignments.
func (p TaskPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Title != nil {
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	} else if p.ClearDesc {
		fields["description"] = nil
	}
	if p.Completed != nil {
		fields["completed"] = *p.Completed
	}
	return fields
}
