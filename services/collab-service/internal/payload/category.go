package payload

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type SetPreferencesRequest struct {
	CategoryIDs []string `json:"categoryIds" validate:"required,dive,required"`
}
