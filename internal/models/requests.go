package models

// SignupRequest drives all three signup phases. The phase is inferred from
// which optional fields are set: phone only sends the OTP, phone+code checks
// it, phone+pin+verifyToken completes registration.
type SignupRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"omitempty,numeric"`
	Pin         string `json:"pin" validate:"omitempty,len=4,numeric"`
	Username    string `json:"username"`
	VerifyToken string `json:"verifyToken"`
}

type SigninRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Pin         string `json:"pin" validate:"required"`
}

// LoginRequest is the OTP-only login variant: absent code triggers dispatch,
// present code verifies and signs in (creating the account on first login).
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"omitempty,numeric"`
}

// ForgetPinRequest drives the three PIN-reset phases, mirroring SignupRequest.
type ForgetPinRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Code        string `json:"code" validate:"omitempty,numeric"`
	Pin         string `json:"pin" validate:"omitempty,len=4,numeric"`
	VerifyToken string `json:"verifyToken"`
}

type CreatePropertyRequest struct {
	Title   string                 `json:"title" validate:"required"`
	RawJSON map[string]interface{} `json:"rawJson" validate:"required"`
}

type UpdatePropertyAccessRequest struct {
	ID         string `json:"id" validate:"required"`
	IsPrivate  bool   `json:"isPrivate"`
	AccessCode string `json:"accessCode" validate:"omitempty,len=4,numeric"`
}
