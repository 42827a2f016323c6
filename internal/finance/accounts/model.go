package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a company bank account. The opening balance is the amount held
// when the account was registered; everything after that lives in the ledger.
type Account struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      int64           `json:"company_id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	Number         string          `json:"number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
