package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vermakhushbu723/Laundry-Backend/internal/middleware"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login issues an OTP, creating the user on first contact.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req phoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.auth.RequestOTP(c.UserContext(), req.PhoneNumber)
	if err != nil {
		return err
	}
	return okMessage(c, "otp sent", issue)
}

// VerifyOTP exchanges a valid OTP for a session token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.VerifyOTP(c.UserContext(), req.PhoneNumber, req.OTP)
	if err != nil {
		return err
	}
	return okMessage(c, "login successful", session)
}

// ResendOTP replaces the OTP of an existing user.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req phoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	issue, err := h.auth.ResendOTP(c.UserContext(), req.PhoneNumber)
	if err != nil {
		return err
	}
	return okMessage(c, "otp resent", issue)
}

// AdminLogin checks admin credentials.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.AdminLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return okMessage(c, "login successful", session)
}

// AdminProfile returns the authenticated admin.
func (h *AuthHandler) AdminProfile(c *fiber.Ctx) error {
	admin, found := middleware.CurrentAdmin(c)
	if !found {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return ok(c, fiber.StatusOK, admin)
}
