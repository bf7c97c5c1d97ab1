package model

const (
	UserRoleMember  = "member"
	UserRoleFounder = "founder"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
