package dto

// Response envelope of every JSON reply
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageDTO pagination block of list replies
type PageDTO struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// PageQuery common page/limit query parameters
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
