package payout

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// PlisioGateway creates a crypto invoice paying out to the wallet address
// captured on the withdrawal request.
type PlisioGateway struct {
	ApiURL string
}

func (g *PlisioGateway) InitiatePayout(req PayoutRequest) (PayoutResult, error) {
	if req.WalletAddress == "" {
		return PayoutResult{}, fmt.Errorf("plisio payout requires a wallet address")
	}

	params := url.Values{}
	params.Set("api_key", os.Getenv("PLISIO_API_KEY"))
	params.Set("order_number", req.RequestRef)
	params.Set("amount", req.Amount.StringFixed(2))
	params.Set("to", req.WalletAddress)
	if req.WalletCurrency != "" {
		params.Set("currency", req.WalletCurrency)
	}

	resp, err := http.Get(g.ApiURL + "?" + params.Encode())
	if err != nil {
		return PayoutResult{}, fmt.Errorf("plisio payout request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return PayoutResult{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return PayoutResult{}, fmt.Errorf("plisio payout failed, status: %s", resp.Status)
	}

	var result struct {
		Status string `json:"status"`
		Data   struct {
			TxnID      string `json:"txn_id"`
			InvoiceURL string `json:"invoice_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return PayoutResult{}, fmt.Errorf("plisio payout response decode: %w", err)
	}
	if result.Status != "success" {
		return PayoutResult{}, fmt.Errorf("plisio payout not accepted: %s", result.Status)
	}

	return PayoutResult{
		CheckoutURL: result.Data.InvoiceURL,
		CheckoutID:  result.Data.TxnID,
		Status:      result.Status,
	}, nil
}

func init() {
	Register("plisio", &PlisioGateway{
		ApiURL: "https://api.plisio.net/api/v1/invoices/new",
	})
}
