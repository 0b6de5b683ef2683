// Package authv1 defines the authify.v1.AuthService messages, server and client.
// Messages travel as JSON over gRPC (see package codec).
package authv1

// Account is the public view of an account.
type Account struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (x *RegisterRequest) GetName() string {
	if x == nil {
		return ""
	}
	return x.Name
}

func (x *RegisterRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *RegisterRequest) GetPassword() string {
	if x == nil {
		return ""
	}
	return x.Password
}

type RegisterResponse struct {
	Account *Account `json:"account"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (x *LoginRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *LoginRequest) GetPassword() string {
	if x == nil {
		return ""
	}
	return x.Password
}

// LoginResponse carries the session token. ExpiresAt is Unix seconds.
type LoginResponse struct {
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type IsAuthenticatedRequest struct{}

type IsAuthenticatedResponse struct {
	Authenticated bool `json:"authenticated"`
}

type SendVerifyOTPRequest struct{}

type SendVerifyOTPResponse struct{}

type VerifyEmailRequest struct {
	Otp string `json:"otp"`
}

func (x *VerifyEmailRequest) GetOtp() string {
	if x == nil {
		return ""
	}
	return x.Otp
}

type VerifyEmailResponse struct{}

type SendResetOTPRequest struct {
	Email string `json:"email"`
}

func (x *SendResetOTPRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

type SendResetOTPResponse struct{}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (x *ResetPasswordRequest) GetEmail() string {
	if x == nil {
		return ""
	}
	return x.Email
}

func (x *ResetPasswordRequest) GetOtp() string {
	if x == nil {
		return ""
	}
	return x.Otp
}

func (x *ResetPasswordRequest) GetNewPassword() string {
	if x == nil {
		return ""
	}
	return x.NewPassword
}

type ResetPasswordResponse struct{}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Account *Account `json:"account"`
}
