package notifications

type notificationRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=200"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all user"`
	UserID   *int64 `json:"user_id" validate:"omitempty,gt=0"`
}
