package payload

type ChatTokenResponse struct {
	Token string `json:"token"`
}
