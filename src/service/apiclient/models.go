package apiclient

import "tech-debt-manager/src/model"

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse describes the user behind a token
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MessageResponse is the error body returned by the API
type MessageResponse struct {
	Message string `json:"message"`
}

// TechnicalDebtResponse is the body of GET /api/technical-debt
type TechnicalDebtResponse []model.DebtItem
