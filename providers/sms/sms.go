package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"sweeparcade/services"
)

// HTTPSender posts messages to a Twilio-style JSON gateway. Callers hand
// it an already normalized E.164 number.
type HTTPSender struct {
	ApiURL string
	From   string
	log    zerolog.Logger
}

func NewHTTPSender(log zerolog.Logger) *HTTPSender {
	return &HTTPSender{
		ApiURL: os.Getenv("SMS_API_URL"),
		From:   os.Getenv("SMS_FROM_NUMBER"),
		log:    log,
	}
}

func (s *HTTPSender) Send(e164Phone, body string) services.SMSResult {
	if s.ApiURL == "" {
		return services.SMSResult{Err: fmt.Errorf("SMS_API_URL not configured")}
	}

	payload := map[string]string{
		"api_key": os.Getenv("SMS_API_KEY"),
		"from":    s.From,
		"to":      e164Phone,
		"body":    body,
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return services.SMSResult{Err: err}
	}

	resp, err := http.Post(s.ApiURL, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return services.SMSResult{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.SMSResult{Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return services.SMSResult{Err: fmt.Errorf("sms gateway status: %s", resp.Status)}
	}

	var result struct {
		MessageID string `json:"message_id"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return services.SMSResult{Err: err}
	}

	s.log.Debug().Str("to", e164Phone).Str("message_id", result.MessageID).Msg("sms dispatched")
	return services.SMSResult{Success: true, ProviderMessageID: result.MessageID}
}
