package dto

import "github.com/stocklog/inventory-service/internal/model"

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhoneNo  string `json:"phone_no"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput uses pointer fields so a caller can distinguish
// "leave unchanged" (nil) from "set to this value".
type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	PhoneNo *string `json:"phone_no"`
}

type AuthResult struct {
	Token string      `json:"authtoken"`
	User  *model.User `json:"user"`
}
