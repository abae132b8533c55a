package auth

import "github.com/cmlabs-hris/hris-console/internal/pkg/validator"

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validator.Required(errs, "usernameOrEmail", r.UsernameOrEmail)
	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type LoginResponse struct {
	Tokens  *TokenPair `json:"tokens,omitempty"`
	Message string     `json:"message,omitempty"`
}

// AccessToken returns tokens.accessToken or "" when the field is absent.
func (r LoginResponse) AccessToken() string {
	if r.Tokens == nil {
		return ""
	}
	return r.Tokens.AccessToken
}
