package dto

type UploadContentDTO struct {
	Title       string  `form:"title" validate:"required,max=200"`
	Description string  `form:"description" validate:"max=5000"`
	ContentType string  `form:"contentType"`
	Tags        string  `form:"tags"`
	Category    string  `form:"category" validate:"max=50"`
	Duration    float64 `form:"duration" validate:"gte=0"`
	IsPublic    *bool   `form:"isPublic"`
}

type UpdateContentDTO struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Tags        *string `json:"tags"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	IsPublic    *bool   `json:"isPublic"`
}

// ExploreQuery query string of GET /content/explore
type ExploreQuery struct {
	PageQuery
	Category    string `form:"category"`
	ContentType string `form:"contentType"`
	Tags        string `form:"tags"`
	Search      string `form:"search"`
	Creator     string `form:"creator"`
	Following   bool   `form:"following"`
	Sort        string `form:"sort" validate:"omitempty,oneof=trending newest popular recommended"`
}

type StatsDTO struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Shares    int64 `json:"shares"`
	Saves     int64 `json:"saves"`
	Downloads int64 `json:"downloads"`
}

type ContentDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ContentType  string          `json:"contentType"`
	FileURL      string          `json:"fileUrl"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	Creator      *UserSummaryDTO `json:"creator"`
	Duration     float64         `json:"duration"`
	Tags         []string        `json:"tags"`
	Category     string          `json:"category"`
	Stats        StatsDTO        `json:"stats"`
	IsPublic     bool            `json:"isPublic"`
	IsLiked      bool            `json:"isLiked"`
	IsSaved      bool            `json:"isSaved"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

type ContentListDTO struct {
	Contents   []*ContentDTO `json:"contents"`
	Pagination PageDTO       `json:"pagination"`
}

type ContentDetailDTO struct {
	Content        *ContentDTO   `json:"content"`
	SimilarContent []*ContentDTO `json:"similarContent"`
	Comments       []*CommentDTO `json:"comments"`
}

type LikeResultDTO struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"isLiked"`
}

type SaveResultDTO struct {
	Saves   int64 `json:"saves"`
	IsSaved bool  `json:"isSaved"`
}

type ShareResultDTO struct {
	Shares   int64  `json:"shares"`
	ShareURL string `json:"shareUrl"`
}

// MediaLocationDTO how to fetch a stored file. Path is set for local storage only and never serialized.
type MediaLocationDTO struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
	Path      string `json:"-"`
	FileName  string `json:"-"`
}
