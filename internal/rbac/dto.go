package rbac

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Rank        int      `json:"rank" validate:"gte=0"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

type updateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Rank        int    `json:"rank" validate:"gte=0"`
}

type roleStatusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

type rolePermissionRequest struct {
	Alias string `json:"alias" validate:"required,max=100"`
}
