package dtos

import (
	"time"

	"github.com/capital/finance/pkg/entities"
)

// DTO for user registration
type DTOForUserCreate struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=150"`
	Password string `json:"password" binding:"required,min=6"`
}

// DTO for user login
type DTOForUserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeDTO struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// New password length is checked by the service so the message matches the
// other reset failures' shape.
type ResetPasswordDTO struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UserDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(u entities.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Session is what register, login and refresh hand back.
type Session struct {
	User      entities.User
	Token     string
	ExpiresAt time.Time
}

type SessionResponse struct {
	Message   string    `json:"message"`
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSessionResponse(message string, s Session) SessionResponse {
	return SessionResponse{
		Message:   message,
		User:      NewUserDTO(s.User),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}
