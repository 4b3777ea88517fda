package financial

import "time"

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Transaction amounts are minor currency units and always positive; Kind
// carries the sign.
type Transaction struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Kind        Kind      `json:"type"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type CreateInput struct {
	Kind        Kind      `json:"type"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type Summary struct {
	ProjectID    string           `json:"projectId"`
	Budget       int64            `json:"budget"`
	TotalIncome  int64            `json:"totalIncome"`
	TotalExpense int64            `json:"totalExpense"`
	Balance      int64            `json:"balance"`
	ByCategory   map[string]int64 `json:"byCategory,omitempty"`
}

// Remaining is the unspent budget; negative when over budget.
func (s Summary) Remaining() int64 { return s.Budget - s.TotalExpense }
