package payout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// SoapGateway creates a hosted checkout for the payout through the Soap
// payments API; the returned URL is handed to the user to complete
// redemption.
type SoapGateway struct {
	ApiURL string
}

func (g *SoapGateway) InitiatePayout(req PayoutRequest) (PayoutResult, error) {
	payload := map[string]any{
		"api_key":      os.Getenv("SOAP_API_KEY"),
		"merchant_ref": req.RequestRef,
		"amount":       req.Amount.StringFixed(2),
		"currency":     "USD",
		"customer_id":  fmt.Sprintf("%d", req.UserID),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return PayoutResult{}, err
	}

	resp, err := http.Post(g.ApiURL, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return PayoutResult{}, fmt.Errorf("soap payout request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return PayoutResult{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return PayoutResult{}, fmt.Errorf("soap payout failed, status: %s", resp.Status)
	}

	var result struct {
		CheckoutURL string `json:"checkout_url"`
		CheckoutID  string `json:"checkout_id"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return PayoutResult{}, fmt.Errorf("soap payout response decode: %w", err)
	}

	return PayoutResult{
		CheckoutURL: result.CheckoutURL,
		CheckoutID:  result.CheckoutID,
		Status:      result.Status,
	}, nil
}

func init() {
	Register("soap", &SoapGateway{
		ApiURL: "https://api.soapgateway.com/v1/payouts",
	})
}
