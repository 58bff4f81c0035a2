package api

// CafeIDRequest 指定目標咖啡廳；可由 JSON、表單或 query string 帶入
// swagger:model api.CafeIDRequest
type CafeIDRequest struct {
	CafeID int `json:"cafe_id" form:"cafe_id" query:"cafe_id" example:"1"`
}

// swagger:model api.LikesResponse
type LikesResponse struct {
	Likes bool `json:"likes" example:"true"`
}

// swagger:model api.LikedResponse
type LikedResponse struct {
	Liked int `json:"liked" example:"1"`
}

// swagger:model api.UnlikedResponse
type UnlikedResponse struct {
	Unliked int `json:"unliked" example:"1"`
}
