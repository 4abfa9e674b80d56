package services

// Side channel ports. All three are best-effort: callers log failures and
// never let them abort the database mutation that preceded them.

type Mailer interface {
	Send(toAddress, subject, htmlBody string) error
}

type SMSResult struct {
	Success           bool
	ProviderMessageID string
	Err               error
}

type SMSSender interface {
	Send(e164Phone, body string) SMSResult
}

type Pusher interface {
	PushToUser(userID uint, event string, payload any) error
	PushToAdmins(event string, payload any) error
}
