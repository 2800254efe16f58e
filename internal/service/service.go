// Package service implements the Connect RPC services on top of the access
// and ledger engines.
package service

import (
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/pkg/api"
)

// toConnectError maps the error taxonomy onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, errs.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errs.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errs.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, errs.ErrNotImplemented):
		return connect.NewError(connect.CodeUnimplemented, err)
	case errors.Is(err, errs.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed operation with its context and returns the Connect error.
// Store and unexpected failures log at error level, caller mistakes at warn.
func fail(op string, err error, args ...any) error {
	cerr := toConnectError(err)
	args = append(args, "error", err)
	if cerr.Code() == connect.CodeInternal {
		slog.Error(op+" failed", args...)
	} else {
		slog.Warn(op+" failed", append(args, "code", cerr.Code())...)
	}
	return cerr
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, errs.Validation("transaction date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

func toAPIBook(b *models.AccountBook, role models.Role) *api.Book {
	return &api.Book{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsPersonal:  b.IsPersonal,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UserRole:    string(role),
	}
}

func toAPIMember(m models.Member) *api.Member {
	return &api.Member{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		Role:        string(m.Role),
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:              t.ID,
		BookID:          t.BookID,
		PayerID:         t.PayerID,
		Amount:          t.Amount,
		Type:            string(t.Type),
		Category:        t.Category,
		TransactionDate: t.TransactionDate.Format(models.DateLayout),
		Description:     t.Description,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

func toAPITransactions(ts []*models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(ts))
	for i, t := range ts {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
