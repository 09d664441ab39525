package dto

import "github.com/google/uuid"

// CredentialsDTO is the body of both register and login.
type CredentialsDTO struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	UserID uuid.UUID `json:"user_id" swaggertype:"string"`
	Role   string    `json:"role"`
	Token  string    `json:"token"`
}
