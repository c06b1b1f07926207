package payload

type CreateApplicationRequest struct {
	ProjectID        string   `json:"projectId"        validate:"required"`
	Role             string   `json:"role"             validate:"required"`
	Skills           []string `json:"skills"           validate:"omitempty,dive,required"`
	ReasonForJoining string   `json:"reasonForJoining" validate:"required"`
	Availability     string   `json:"availability"     validate:"required"`
}

type UpdateApplicationRequest struct {
	Role             *string   `json:"role"             validate:"omitempty,min=1"`
	Skills           *[]string `json:"skills"           validate:"omitempty,dive,required"`
	ReasonForJoining *string   `json:"reasonForJoining" validate:"omitempty,min=1"`
	Availability     *string   `json:"availability"     validate:"omitempty,min=1"`
}
