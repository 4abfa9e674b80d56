package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sweeparcade/controllers/gameaccount"
	"sweeparcade/controllers/notification"
	"sweeparcade/controllers/otp"
	"sweeparcade/controllers/recharge"
	"sweeparcade/controllers/user"
	"sweeparcade/controllers/wallet"
	"sweeparcade/controllers/withdrawal"
	"sweeparcade/database"
	"sweeparcade/jobs"
	"sweeparcade/providers/mail"
	"sweeparcade/providers/payout"
	"sweeparcade/providers/sms"
	"sweeparcade/push"
	"sweeparcade/routes"
	"sweeparcade/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Logger

	db := database.Connect()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	hub := push.NewHub(logger)
	mailer := mail.NewSMTPMailer(logger)
	smsSender := sms.NewHTTPSender(logger)

	ledger := services.NewLedger(db)
	notifier := services.NewNotificationService(db, hub, logger)
	accounts := services.NewAccountService(db, ledger, notifier, logger)
	recharges := services.NewRechargeService(db, ledger, notifier, logger)
	withdrawals := services.NewWithdrawalService(db, ledger, notifier, payout.Gateways, logger)
	gameAccounts := services.NewGameAccountService(db, ledger, notifier, logger)
	otpService := services.NewOTPService(db, smsSender, services.OTPPolicyFromEnv(), logger)

	app := fiber.New()
	routes.Setup(app, routes.Controllers{
		Accounts:     accounts,
		User:         &user.Controller{Accounts: accounts},
		Wallet:       &wallet.Controller{Accounts: accounts, Ledger: ledger},
		Recharge:     &recharge.Controller{Recharges: recharges, Accounts: accounts, Mailer: mailer, Log: logger},
		Withdrawal:   &withdrawal.Controller{Withdrawals: withdrawals, Accounts: accounts, Mailer: mailer, Log: logger},
		GameAccount:  &gameaccount.Controller{GameAccounts: gameAccounts},
		Notification: &notification.Controller{Notifications: notifier},
		OTP:          &otp.Controller{OTP: otpService, Accounts: accounts},
		Hub:          hub,
	})

	jobs.StartCleanupScheduler(db)

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Info().Str("addr", addr).Msg("server running")

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panic().Err(err).Msg("failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("gracefully shutting down")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited cleanly")
}
