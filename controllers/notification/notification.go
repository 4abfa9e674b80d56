package notification

import (
	"github.com/gofiber/fiber/v2"

	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/services"
)

type Controller struct {
	Notifications *services.NotificationService
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	rows, err := ctl.Notifications.ListAll(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	unread, err := ctl.Notifications.UnreadCount(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}

	return helpers.JSONSuccess(c, "Notifications retrieved", fiber.Map{
		"notifications": rows,
		"unread_count":  unread,
	})
}

func (ctl *Controller) Unread(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	rows, err := ctl.Notifications.ListUnread(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Unread notifications retrieved", rows)
}

func (ctl *Controller) MarkRead(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	if err := ctl.Notifications.MarkRead(current.ID, c.Params("id")); err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Notification marked read", nil)
}

func (ctl *Controller) MarkAllRead(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	count, err := ctl.Notifications.MarkAllRead(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "All notifications marked read", fiber.Map{"count": count})
}

func (ctl *Controller) DeleteRead(c *fiber.Ctx) error {
	current, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "INVALID_SESSION")
	}

	count, err := ctl.Notifications.DeleteRead(current.ID)
	if err != nil {
		return helpers.JSONAppError(c, err)
	}
	return helpers.JSONSuccess(c, "Read notifications cleared", fiber.Map{"count": count})
}
