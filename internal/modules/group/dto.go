package group

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}
