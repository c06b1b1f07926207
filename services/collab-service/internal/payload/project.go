package payload

import "time"

type CreateProjectRequest struct {
	Title          string     `json:"title"          validate:"required"`
	Description    string     `json:"description"    validate:"required"`
	Category       string     `json:"category"       validate:"required"`
	Tags           []string   `json:"tags"           validate:"omitempty,dive,required"`
	RequiredSkills []string   `json:"requiredSkills" validate:"omitempty,dive,required"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
}

type UpdateProjectRequest struct {
	Title          *string    `json:"title"          validate:"omitempty,min=1"`
	Description    *string    `json:"description"    validate:"omitempty,min=1"`
	Category       *string    `json:"category"       validate:"omitempty,min=1"`
	Tags           *[]string  `json:"tags"           validate:"omitempty,dive,required"`
	RequiredSkills *[]string  `json:"requiredSkills" validate:"omitempty,dive,required"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	Archived       *bool      `json:"archived"`
}
