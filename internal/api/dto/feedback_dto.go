package dto

type SubmitFeedbackDTO struct {
	Type     string         `json:"type" validate:"required,oneof=bug feature content account other"`
	Subject  string         `json:"subject" validate:"required,max=200"`
	Message  string         `json:"message" validate:"required,max=5000"`
	Email    string         `json:"email" validate:"omitempty,email"`
	Metadata map[string]any `json:"metadata"`
}

type UpdateFeedbackDTO struct {
	Status        string  `json:"status"`
	AdminResponse *string `json:"adminResponse" validate:"omitempty,max=5000"`
}

type FeedbackQuery struct {
	PageQuery
	Status string `form:"status"`
	Type   string `form:"type"`
}

type TestEmailDTO struct {
	To string `json:"to" validate:"omitempty,email"`
}

type FeedbackDTO struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Subject       string          `json:"subject"`
	Message       string          `json:"message"`
	User          *UserSummaryDTO `json:"user,omitempty"`
	Email         string          `json:"email,omitempty"`
	Status        string          `json:"status"`
	AdminResponse string          `json:"adminResponse,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type FeedbackListDTO struct {
	Feedback   []*FeedbackDTO `json:"feedback"`
	Pagination PageDTO        `json:"pagination"`
}
