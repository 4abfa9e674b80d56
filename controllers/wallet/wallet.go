package wallet

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	Accounts *services.AccountService
	Ledger   *services.Ledger
}

func (ctl *Controller) Balances(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	user, err := ctl.Accounts.Profile(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Balances retrieved", fiber.Map{
		"gold_coins":  user.Wallet.Balance,
		"currency":    user.Wallet.Currency,
		"sweep_coins": user.Bonus.SweepCoins,
	})
}

func (ctl *Controller) Transactions(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	var rows []models.CoinTransaction
	if err := ctl.Ledger.DB().
		Where("user_id = ?", current.ID).
		Order("created_at DESC").Limit(100).
		Find(&rows).Error; err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Transactions retrieved", rows)
}
