package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one raw statement line item as delivered by a file-format parser.
// Movements carry no identity of their own; they only exist between parsing and
// the batch splitter turning them into draft entries.
type Movement struct {
	BookingDate      time.Time       `json:"bookingDate"`
	Amount           decimal.Decimal `json:"amount"`
	Subject          string          `json:"subject"`
	CounterpartyName string          `json:"counterpartyName"`
	ValutaDate       *time.Time      `json:"valutaDate"`
	CurrencyCode     string          `json:"currencyCode"`
	Description      string          `json:"description"`
	Announced        bool            `json:"announced"`
}
