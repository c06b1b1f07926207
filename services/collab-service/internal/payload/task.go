package payload

type CreateTaskRequest struct {
	ProjectID   string  `json:"projectId"   validate:"required"`
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string `json:"assigneeId"  validate:"omitempty,min=1"`
}

// UpdateTaskRequest updates a task. An assigneeId of "" removes the
// assignee; a nil assigneeId leaves it alone.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string `json:"assigneeId"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}
