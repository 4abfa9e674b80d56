package user

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	Accounts *services.AccountService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	user, err := ctl.Accounts.Register(req.Email, req.Password, req.Phone)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONCreated(c, "Registration successful", fiber.Map{
		"user_id":       user.ID,
		"email":         user.Email,
		"referral_code": user.ReferralCode,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	session, err := ctl.Accounts.Login(req.Email, req.Password)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Login successful", fiber.Map{
		"session_id": session.SID,
		"expires_at": session.ExpiresAt,
		"user_id":    session.UserID,
		"role":       session.User.Role,
	})
}

func (ctl *Controller) Profile(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	user, err := ctl.Accounts.Profile(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Profile retrieved", fiber.Map{
		"email":          user.Email,
		"phone":          user.Phone,
		"referral_code":  user.ReferralCode,
		"email_verified": user.EmailVerified,
		"phone_verified": user.PhoneVerified,
		"kyc_verified":   user.KYCVerified,
		"gold_coins":     user.Wallet.Balance,
		"sweep_coins":    user.Bonus.SweepCoins,
		"login_streak":   user.Bonus.LoginStreak,
	})
}
