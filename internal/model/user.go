package model

// Role is a website user role.
type Role string

const (
	RoleBasic Role = "basic"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleBasic, RoleAdmin:
		return true
	}
	return false
}

// User is a website user. Email is the login identity and is immutable
// through UpdateFrom; role changes go through the partial-update path.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Role     Role   `json:"role"`
}

func (u *User) Identity() int      { return u.ID }
func (u *User) SetIdentity(id int) { u.ID = id }

// UpdateFrom copies Fullname and Role from dto. ID and Email stay fixed.
func (u *User) UpdateFrom(dto *User) *User {
	u.Fullname = dto.Fullname
	u.Role = dto.Role
	return u
}
