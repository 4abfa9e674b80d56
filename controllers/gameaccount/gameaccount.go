package gameaccount

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	GameAccounts *services.GameAccountService
}

type createRequest struct {
	GameName        string `json:"game_name"`
	RequestedAmount int64  `json:"requested_amount"`
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

	created, err := ctl.GameAccounts.Create(current.ID, req.GameName, req.RequestedAmount)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONCreated(c, "Game account request submitted", created)
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	rows, err := ctl.GameAccounts.ListForUser(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Game account requests retrieved", rows)
}

func (ctl *Controller) Accounts(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	rows, err := ctl.GameAccounts.AccountsForUser(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Game accounts retrieved", rows)
}

func (ctl *Controller) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	account, err := ctl.GameAccounts.Approve(uint(id))
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Game account request approved", account)
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

	req, err := ctl.GameAccounts.Reject(uint(id), body.Comment)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Game account request rejected", req)
}
