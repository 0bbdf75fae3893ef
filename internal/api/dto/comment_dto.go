package dto

type CreateCommentDTO struct {
	Text          string `json:"text" validate:"required,max=1000"`
	ParentComment string `json:"parentComment"`
}

type UpdateCommentDTO struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type CommentDTO struct {
	ID            string          `json:"id"`
	Content       string          `json:"content"`
	User          *UserSummaryDTO `json:"user"`
	ParentComment *string         `json:"parentComment"`
	Text          string          `json:"text"`
	Likes         int64           `json:"likes"`
	IsLiked       bool            `json:"isLiked"`
	Replies       []*CommentDTO   `json:"replies,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type CommentLikeDTO struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"isLiked"`
}
