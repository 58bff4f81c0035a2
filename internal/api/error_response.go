package api

// ErrorResponse JSON 錯誤回應
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error string `json:"error" example:"Not logged in"`
}
