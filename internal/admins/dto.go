package admins

type createAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   *int64 `json:"role_id" validate:"omitempty,gt=0"`
}

type updateAdminRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=120"`
	RoleID *int64 `json:"role_id" validate:"omitempty,gt=0"`
}

type adminStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
