package recharge

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	Recharges *services.RechargeService
	Accounts  *services.AccountService
	Mailer    services.Mailer
	Log       zerolog.Logger
}

type createRequest struct {
	GameName     string `json:"game_name"`
	GameUsername string `json:"game_username"`
	AmountUSD    int64  `json:"amount"`
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	created, err := ctl.Recharges.Create(current.ID, req.GameName, req.GameUsername, req.AmountUSD)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONCreated(c, "Recharge request submitted", created)
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	if current.IsAdmin() {
		status := c.Query("status", models.RechargeStatusPending)
		rows, err := ctl.Recharges.ListByStatus(status)
		if err != nil {
			return helpers.JSONAppError(c, err)
		}
		return helpers.JSONSuccess(c, "Recharge requests retrieved", rows)
	}

	rows, err := ctl.Recharges.ListForUser(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Recharge requests retrieved", rows)
}

func (ctl *Controller) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	req, err := ctl.Recharges.Approve(uint(id))
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	ctl.emailOwner(req.UserID, "Recharge approved",
		fmt.Sprintf("<p>Your recharge of $%d for %s was approved.</p>", req.AmountUSD, req.GameName))
	return helpers.JSONSuccess(c, "Recharge request approved", req)
}

type rejectRequest struct {
	Comment string `json:"comment"`
}

func (ctl *Controller) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	var body rejectRequest
	if err := c.BodyParser(&body); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	req, err := ctl.Recharges.Reject(uint(id), body.Comment)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	ctl.emailOwner(req.UserID, "Recharge rejected",
		fmt.Sprintf("<p>Your recharge for %s was rejected: %s. The reserved coins were returned.</p>", req.GameName, body.Comment))
	return helpers.JSONSuccess(c, "Recharge request rejected", req)
}

// emailOwner is fire-and-forget; the lifecycle transition already
// committed and must not care whether the mail went out.
func (ctl *Controller) emailOwner(userID uint, subject, html string) {
	if ctl.Mailer == nil {
		return
	}
	user, err := ctl.Accounts.Profile(userID)
	if err != nil || user.Email == "" {
		return
	}
	go func() {
		if err := ctl.Mailer.Send(user.Email, subject, html); err != nil {
			ctl.Log.Warn().Err(err).Str("to", user.Email).Msg("lifecycle email failed")
		}
	}()
}
