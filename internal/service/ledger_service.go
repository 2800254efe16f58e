package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/internal/ledger"
	"github.com/mmynk/ledgerbook/internal/middleware"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/pkg/api"
	"github.com/mmynk/ledgerbook/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	engine *ledger.Engine
}

// NewLedgerService creates a LedgerService backed by engine.
func NewLedgerService(engine *ledger.Engine) *LedgerService {
	return &LedgerService{engine: engine}
}

// ListTransactions returns a book's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("ListTransactions request received", "user_id", caller.UserID, "book_id", req.Msg.BookID)

	txs, err := s.engine.List(ctx, caller, req.Msg.BookID)
	if err != nil {
		return nil, fail("ListTransactions", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPITransactions(txs)}), nil
}

// CreateTransaction records a transaction paid by the caller.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("CreateTransaction request received",
		"user_id", caller.UserID,
		"book_id", req.Msg.BookID,
		"type", req.Msg.Type,
	)

	date, err := parseDate(req.Msg.TransactionDate)
	if err != nil {
		return nil, fail("CreateTransaction", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	res, err := s.engine.Create(ctx, caller, req.Msg.BookID, models.TransactionInput{
		Amount:          req.Msg.Amount,
		Type:            models.TransactionType(req.Msg.Type),
		Category:        req.Msg.Category,
		TransactionDate: date,
		Description:     req.Msg.Description,
		Notes:           req.Msg.Notes,
	})
	if err != nil {
		return nil, fail("CreateTransaction", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}

	return connect.NewResponse(&api.CreateTransactionResponse{
		Transaction:  toAPITransaction(res.Transaction),
		Transactions: toAPITransactions(res.Transactions),
	}), nil
}

// UpdateTransaction changes the fields present in the request.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("UpdateTransaction request received", "user_id", caller.UserID, "transaction_id", req.Msg.TransactionID)

	patch := models.TransactionPatch{
		Amount:      req.Msg.Amount,
		Category:    req.Msg.Category,
		Description: req.Msg.Description,
		Notes:       req.Msg.Notes,
	}
	if req.Msg.Type != nil {
		typ := models.TransactionType(*req.Msg.Type)
		patch.Type = &typ
	}
	if req.Msg.TransactionDate != nil {
		date, err := parseDate(*req.Msg.TransactionDate)
		if err != nil {
			return nil, fail("UpdateTransaction", err, "user_id", caller.UserID, "transaction_id", req.Msg.TransactionID)
		}
		patch.TransactionDate = &date
	}

	res, err := s.engine.Update(ctx, caller, req.Msg.TransactionID, patch)
	if err != nil {
		return nil, fail("UpdateTransaction", err, "user_id", caller.UserID, "transaction_id", req.Msg.TransactionID)
	}

	return connect.NewResponse(&api.UpdateTransactionResponse{
		Transaction:  toAPITransaction(res.Transaction),
		Transactions: toAPITransactions(res.Transactions),
	}), nil
}

// DeleteTransaction removes a transaction and returns the remaining list.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("DeleteTransaction request received", "user_id", caller.UserID, "transaction_id", req.Msg.TransactionID)

	res, err := s.engine.Delete(ctx, caller, req.Msg.TransactionID)
	if err != nil {
		return nil, fail("DeleteTransaction", err, "user_id", caller.UserID, "transaction_id", req.Msg.TransactionID)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{Transactions: toAPITransactions(res.Transactions)}), nil
}

// GetMonthlySummary totals a book's expenses for one month.
func (s *LedgerService) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("GetMonthlySummary request received",
		"user_id", caller.UserID,
		"book_id", req.Msg.BookID,
		"year", req.Msg.Year,
		"month", req.Msg.Month,
	)

	sum, err := s.engine.MonthlySummary(ctx, caller, req.Msg.BookID, req.Msg.Year, req.Msg.Month)
	if err != nil {
		return nil, fail("GetMonthlySummary", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}

	totals := make([]*api.MemberTotal, len(sum.MemberTotals))
	for i, mt := range sum.MemberTotals {
		totals[i] = &api.MemberTotal{
			UserID:      mt.UserID,
			DisplayName: mt.DisplayName,
			Email:       mt.Email,
			Total:       mt.Total,
		}
	}
	transfers := make([]*api.Transfer, len(sum.Transfers))
	for i, tr := range sum.Transfers {
		transfers[i] = &api.Transfer{FromUserID: tr.FromUserID, ToUserID: tr.ToUserID, Amount: tr.Amount}
	}

	return connect.NewResponse(&api.GetMonthlySummaryResponse{
		BookID:       sum.BookID,
		Year:         sum.Year,
		Month:        sum.Month,
		Total:        sum.Total,
		MemberTotals: totals,
		Average:      sum.Average,
		Transfers:    transfers,
	}), nil
}
