package dto

type RegisterDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpwd"`
}

// LoginDTO is bound from an OAuth2-style form: the username field carries
// the email.
type LoginDTO struct {
	Email    string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type VerifyEmailDTO struct {
	Token string `form:"token" validate:"required"`
}

type ResetRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpwd"`
}
