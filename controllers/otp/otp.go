package otp

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	OTP      *services.OTPService
	Accounts *services.AccountService
}

type phoneRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

func (r *phoneRequest) purposeOrDefault() string {
	if r.Purpose == "" {
		return models.OTPPurposeVerifyPhone
	}
	return r.Purpose
}

func (ctl *Controller) Send(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	otp, err := ctl.OTP.Send(req.Phone, req.purposeOrDefault())
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Verification code sent", fiber.Map{
		"phone":      otp.Phone,
		"expires_at": otp.ExpiresAt,
	})
}

type verifyRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

func (ctl *Controller) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = models.OTPPurposeVerifyPhone
	}

	outcome, err := ctl.OTP.Verify(req.Phone, purpose, req.Code)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	if outcome == services.OTPValid && purpose == models.OTPPurposeVerifyPhone {
		if current, ok := c.Locals("user").(models.User); ok {
			if err := ctl.Accounts.MarkPhoneVerified(current.ID); err != nil {
				return helpers.JSONAppError(c, err)
			}
		}
	}

	return helpers.JSONSuccess(c, "Verification completed", fiber.Map{
		"outcome": outcome,
		"valid":   outcome == services.OTPValid,
	})
}

func (ctl *Controller) Resend(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	otp, err := ctl.OTP.Resend(req.Phone, req.purposeOrDefault())
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Verification code resent", fiber.Map{
		"phone":      otp.Phone,
		"expires_at": otp.ExpiresAt,
	})
}
