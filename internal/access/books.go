package access

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

// CreateBook creates a book owned by caller. The owner's admin membership is
// written in the same store transaction as the book.
func (a *Authorizer) CreateBook(ctx context.Context, caller models.Caller, in models.BookInput) (*models.AccountBook, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrUnauthenticated
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}

	book := &models.AccountBook{
		Name:        in.Name,
		Description: in.Description,
		IsPersonal:  in.IsPersonal,
		OwnerID:     caller.UserID,
	}
	if err := a.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	a.invalidate(caller.UserID)

	slog.Info("Book created", "book_id", book.ID, "owner_id", book.OwnerID)
	return book, nil
}

// GetBook returns a book as seen by caller.
func (a *Authorizer) GetBook(ctx context.Context, caller models.Caller, bookID string) (*models.BookSummary, error) {
	if err := a.RequireView(ctx, caller, bookID); err != nil {
		return nil, err
	}
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	role, err := a.roleOf(ctx, caller.UserID, bookID)
	if err != nil {
		return nil, err
	}
	return &models.BookSummary{AccountBook: *book, UserRole: role}, nil
}

// UpdateBook renames a book or changes its description. Requires manage.
func (a *Authorizer) UpdateBook(ctx context.Context, caller models.Caller, bookID string, in models.BookInput) (*models.AccountBook, error) {
	if err := a.RequireManage(ctx, caller, bookID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := a.validate.Struct(in); err != nil {
		return nil, err
	}

	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	book.Name = in.Name
	book.Description = in.Description
	if err := a.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	// Cached views carry the book name.
	a.purge()
	return book, nil
}

// DeleteBook removes a book with its memberships and transactions.
// Only the owner may delete; admins may not.
func (a *Authorizer) DeleteBook(ctx context.Context, caller models.Caller, bookID string) error {
	if err := a.RequireView(ctx, caller, bookID); err != nil {
		return err
	}
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != caller.UserID {
		a.metrics.Denied("owner")
		return errs.Forbidden("only the owner can delete book %s", bookID)
	}
	if err := a.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}
	a.purge()

	slog.Info("Book deleted", "book_id", bookID, "user_id", caller.UserID)
	return nil
}
