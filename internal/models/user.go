package models

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Parent  Role = "parent"
	Admin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case Student, Teacher, Parent, Admin:
		return true
	}
	return false
}

type User struct {
	ID           int64   `db:"id"`
	Email        string  `db:"email"`
	Name         string  `db:"name"`
	Role         Role    `db:"role"`
	ClassName    *string `db:"class_name"`
	ChatID       *int64  `db:"chat_id"`
	PasswordHash string  `db:"password_hash"`
	IsActive     bool    `db:"is_active"`
}
