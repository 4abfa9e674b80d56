package payout

import (
	"strings"

	"github.com/shopspring/decimal"
)

type PayoutRequest struct {
	RequestRef     string          `json:"request_ref"`
	UserID         uint            `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	WalletAddress  string          `json:"wallet_address,omitempty"`
	WalletCurrency string          `json:"wallet_currency,omitempty"`
}

type PayoutResult struct {
	CheckoutURL string `json:"checkout_url"`
	CheckoutID  string `json:"checkout_id"`
	Status      string `json:"status"`
}

type Gateway interface {
	InitiatePayout(req PayoutRequest) (PayoutResult, error)
}

// Resolver looks a gateway up by its wire name ("soap", "plisio", ...).
type Resolver interface {
	Get(name string) Gateway
}

type Registry map[string]Gateway

func (r Registry) Register(name string, gw Gateway) {
	r[strings.ToLower(name)] = gw
}

func (r Registry) Get(name string) Gateway {
	return r[strings.ToLower(name)]
}

// Gateways is the process-wide registry; connectors self-register in init().
var Gateways = Registry{}

func Register(name string, gw Gateway) {
	Gateways.Register(name, gw)
}
