package projecteye

import (
	"context"
	"fmt"
	"net/http"

	"github.com/NordCoder/ProjectEye/internal/domain/financial"
)

type FinancialService struct{ d Doer }

var _ financial.Source = (*FinancialService)(nil)

func NewFinancialService(d Doer) *FinancialService { return &FinancialService{d: d} }

func (s *FinancialService) Transactions(ctx context.Context, projectID string) ([]financial.Transaction, error) {
	out, err := call[[]financial.Transaction](ctx, s.d, http.MethodGet, "/projects/"+seg(projectID)+"/transactions", nil)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (s *FinancialService) AddTransaction(ctx context.Context, projectID string, in financial.CreateInput) (*financial.Transaction, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("add transaction: amount must be positive")
	}
	if in.Kind != financial.KindIncome && in.Kind != financial.KindExpense {
		return nil, fmt.Errorf("add transaction: unknown type %q", in.Kind)
	}
	out, err := call[financial.Transaction](ctx, s.d, http.MethodPost, "/projects/"+seg(projectID)+"/transactions", in)
	if err != nil {
		return nil, fmt.Errorf("add transaction: %w", err)
	}
	return &out, nil
}

func (s *FinancialService) Summary(ctx context.Context, projectID string) (*financial.Summary, error) {
	out, err := call[financial.Summary](ctx, s.d, http.MethodGet, "/projects/"+seg(projectID)+"/financial/summary", nil)
	if err != nil {
		return nil, fmt.Errorf("financial summary: %w", err)
	}
	return &out, nil
}
