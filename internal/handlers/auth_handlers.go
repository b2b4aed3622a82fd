package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/services"
)

var validate = validator.New()

type AuthHandler struct {
	svc    services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(svc services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Signup dispatches on which fields are present: phone only sends the OTP,
// phone+code verifies it, and a pin completes registration. The verifyToken
// returned by phase 2 is required in phase 3.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	switch {
	case req.Code == "" && req.Pin == "":
		if err := h.svc.StartSignup(c.Context(), req.PhoneNumber); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "OTP sent successfully. Please check your SMS."})

	case req.Code != "" && req.Pin == "":
		token, err := h.svc.VerifySignupOTP(c.Context(), req.PhoneNumber, req.Code)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"message":     "OTP verified. Please provide your 4-digit pin.",
			"verifyToken": token,
		})

	default:
		res, err := h.svc.CompleteSignup(c.Context(), req.PhoneNumber, req.Pin, req.Username, req.VerifyToken)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"message":     "Signup successful!",
			"token":       res.Token,
			"phoneNumber": res.PhoneNumber,
			"username":    res.Username,
		})
	}
}

func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req models.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	res, err := h.svc.SignIn(c.Context(), req.PhoneNumber, req.Pin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Login successful!",
		"token":       res.Token,
		"phoneNumber": res.PhoneNumber,
		"username":    res.Username,
		"properties":  res.Properties,
	})
}

// Login is the OTP-only variant: no code dispatches the OTP, a code verifies
// it and signs in, creating the account on first login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if req.Code == "" {
		if err := h.svc.StartLogin(c.Context(), req.PhoneNumber); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "OTP sent successfully. Please check your SMS."})
	}

	res, err := h.svc.LoginWithOTP(c.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Login successful!",
		"token":       res.Token,
		"phoneNumber": res.PhoneNumber,
		"properties":  res.Properties,
	})
}

// ForgetPin mirrors Signup's phases for resetting a PIN.
func (h *AuthHandler) ForgetPin(c *fiber.Ctx) error {
	var req models.ForgetPinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	switch {
	case req.Code == "" && req.Pin == "":
		if err := h.svc.StartReset(c.Context(), req.PhoneNumber); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "OTP sent successfully. Please check your SMS."})

	case req.Code != "" && req.Pin == "":
		token, err := h.svc.VerifyResetOTP(c.Context(), req.PhoneNumber, req.Code)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"message":     "OTP verified. Please provide your new 4-digit pin.",
			"verifyToken": token,
		})

	default:
		if err := h.svc.CompleteReset(c.Context(), req.PhoneNumber, req.Pin, req.VerifyToken); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "Pin reset successful!"})
	}
}
