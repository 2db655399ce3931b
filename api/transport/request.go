package transport

// CreateTaskRequest is the validated payload for POST /api/tasks.
// The non-blank (trimmed) title rule is enforced in the controller so that
// whitespace-only titles fail with the same message as missing ones.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskRequest carries the optional fields for PUT /api/tasks/:id.
// Absent fields stay nil and are excluded from the patch.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}
