package dto

type NotificationDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     *UserSummaryDTO `json:"actor"`
	Content   *string         `json:"content"`
	Comment   *string         `json:"comment"`
	Message   string          `json:"message"`
	Read      bool            `json:"read"`
	CreatedAt string          `json:"createdAt"`
}

type NotificationListDTO struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Unread        int64              `json:"unread"`
	Pagination    PageDTO            `json:"pagination"`
}

type UnreadDTO struct {
	Unread int64 `json:"unread"`
}
