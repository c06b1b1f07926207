package payload

type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName"    validate:"omitempty,min=1"`
	LastName     *string `json:"lastName"     validate:"omitempty,min=1"`
	PhoneNumber  *string `json:"phoneNumber"  validate:"omitempty,min=1"`
	AvatarURL    *string `json:"avatarUrl"    validate:"omitempty,url"`
	Bio          *string `json:"bio"`
	Location     *string `json:"location"`
	Availability *string `json:"availability"`
}
