package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"sweeparcade/controllers/gameaccount"
	"sweeparcade/controllers/notification"
	"sweeparcade/controllers/otp"
	"sweeparcade/controllers/recharge"
	"sweeparcade/controllers/user"
	"sweeparcade/controllers/wallet"
	"sweeparcade/controllers/withdrawal"
	"sweeparcade/middlewares"
	"sweeparcade/models"
	"sweeparcade/push"
	"sweeparcade/services"
)

type Controllers struct {
	Accounts     *services.AccountService
	User         *user.Controller
	Wallet       *wallet.Controller
	Recharge     *recharge.Controller
	Withdrawal   *withdrawal.Controller
	GameAccount  *gameaccount.Controller
	Notification *notification.Controller
	OTP          *otp.Controller
	Hub          *push.Hub
}

func Setup(app *fiber.App, ctl Controllers) {
	app.Post("/auth/register", ctl.User.Register)
	app.Post("/auth/login", ctl.User.Login)

	app.Post("/otp/send", ctl.OTP.Send)
	app.Post("/otp/resend", ctl.OTP.Resend)

	auth := middlewares.SessionAuth(ctl.Accounts)

	app.Post("/otp/verify", auth, ctl.OTP.Verify)

	authed := app.Group("/", auth)
	authed.Get("/profile", ctl.User.Profile)
	authed.Get("/wallet", ctl.Wallet.Balances)
	authed.Get("/wallet/transactions", ctl.Wallet.Transactions)

	authed.Post("/recharge-requests", ctl.Recharge.Create)
	authed.Get("/recharge-requests", ctl.Recharge.List)

	authed.Post("/withdrawal-requests", ctl.Withdrawal.Create)
	authed.Get("/withdrawal-requests", ctl.Withdrawal.List)

	authed.Post("/game-account-requests", ctl.GameAccount.Create)
	authed.Get("/game-account-requests", ctl.GameAccount.List)
	authed.Get("/game-accounts", ctl.GameAccount.Accounts)

	authed.Get("/notifications", ctl.Notification.List)
	authed.Get("/notifications/unread", ctl.Notification.Unread)
	authed.Put("/notifications/read-all", ctl.Notification.MarkAllRead)
	authed.Delete("/notifications/read", ctl.Notification.DeleteRead)
	authed.Put("/notifications/:id/read", ctl.Notification.MarkRead)

	admin := app.Group("/", auth, middlewares.AdminOnly())
	admin.Put("/recharge-requests/:id/approve", ctl.Recharge.Approve)
	admin.Put("/recharge-requests/:id/reject", ctl.Recharge.Reject)
	admin.Put("/withdrawal-requests/:id/approve", ctl.Withdrawal.Approve)
	admin.Put("/withdrawal-requests/:id/reject", ctl.Withdrawal.Reject)
	admin.Put("/withdrawal-requests/:id/process", ctl.Withdrawal.Process)
	admin.Put("/game-account-requests/:id/approve", ctl.GameAccount.Approve)
	admin.Put("/game-account-requests/:id/reject", ctl.GameAccount.Reject)

	app.Get("/ws", auth, websocket.New(func(conn *websocket.Conn) {
		u, ok := conn.Locals("user").(models.User)
		if !ok {
			_ = conn.Close()
			return
		}
		ctl.Hub.Attach(u.ID, u.IsAdmin(), conn)
	}))
}
