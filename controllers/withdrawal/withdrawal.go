package withdrawal

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	Withdrawals *services.WithdrawalService
	Accounts    *services.AccountService
	Mailer      services.Mailer
	Log         zerolog.Logger
}

type createRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	GameName       string          `json:"game_name"`
	GameUsername   string          `json:"game_username"`
	PaymentGateway string          `json:"payment_gateway"`
	WalletAddress  string          `json:"wallet_address"`
	WalletCurrency string          `json:"wallet_currency"`
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

	created, err := ctl.Withdrawals.Create(services.CreateWithdrawalInput{
		UserID:         current.ID,
		Amount:         req.Amount,
		GameName:       req.GameName,
		GameUsername:   req.GameUsername,
		PaymentGateway: req.PaymentGateway,
		WalletAddress:  req.WalletAddress,
		WalletCurrency: req.WalletCurrency,
	})
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONCreated(c, "Withdrawal request submitted", created)
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	if current.IsAdmin() {
		status := c.Query("status", models.WithdrawalStatusPending)
		rows, err := ctl.Withdrawals.ListByStatus(status)
		if err != nil {
			return helpers.JSONAppError(c, err)
		}
		return helpers.JSONSuccess(c, "Withdrawal requests retrieved", rows)
	}

	rows, err := ctl.Withdrawals.ListForUser(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Withdrawal requests retrieved", rows)
}

func (ctl *Controller) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	req, err := ctl.Withdrawals.Approve(uint(id))
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	ctl.emailOwner(req.UserID, "Withdrawal approved",
		fmt.Sprintf("<p>Your withdrawal of %s SC was approved.</p>", req.Amount.StringFixed(2)))
	return helpers.JSONSuccess(c, "Withdrawal request approved", req)
}

type commentBody struct {
	Comment string `json:"comment"`
}

func (ctl *Controller) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	var body commentBody
	if err := c.BodyParser(&body); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	req, err := ctl.Withdrawals.Reject(uint(id), body.Comment)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	ctl.emailOwner(req.UserID, "Withdrawal rejected",
		fmt.Sprintf("<p>Your withdrawal was rejected: %s</p>", body.Comment))
	return helpers.JSONSuccess(c, "Withdrawal request rejected", req)
}

func (ctl *Controller) Process(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_REQUEST_ID")
	}

	var body commentBody
	if err := c.BodyParser(&body); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON")
	}

	req, err := ctl.Withdrawals.MarkProcessed(uint(id), body.Comment)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	ctl.emailOwner(req.UserID, "Withdrawal processed",
		fmt.Sprintf("<p>Your withdrawal of %s SC has been paid out.</p>", req.Amount.StringFixed(2)))
	return helpers.JSONSuccess(c, "Withdrawal request processed", req)
}

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
