package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/internal/access"
	"github.com/mmynk/ledgerbook/internal/middleware"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/pkg/api"
	"github.com/mmynk/ledgerbook/pkg/api/apiconnect"
)

var _ apiconnect.BookServiceHandler = (*BookService)(nil)

// BookService implements the Connect BookService.
type BookService struct {
	authz *access.Authorizer
}

// NewBookService creates a BookService backed by authz.
func NewBookService(authz *access.Authorizer) *BookService {
	return &BookService{authz: authz}
}

// ListBooks returns every book the caller owns or belongs to.
func (s *BookService) ListBooks(ctx context.Context, req *connect.Request[api.ListBooksRequest]) (*connect.Response[api.ListBooksResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("ListBooks request received", "user_id", caller.UserID)

	books, err := s.authz.ListBooks(ctx, caller)
	if err != nil {
		return nil, fail("ListBooks", err, "user_id", caller.UserID)
	}

	out := make([]*api.Book, len(books))
	for i := range books {
		out[i] = toAPIBook(&books[i].AccountBook, books[i].UserRole)
	}
	return connect.NewResponse(&api.ListBooksResponse{Books: out}), nil
}

// CreateBook creates a book owned by the caller.
func (s *BookService) CreateBook(ctx context.Context, req *connect.Request[api.CreateBookRequest]) (*connect.Response[api.CreateBookResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("CreateBook request received", "user_id", caller.UserID, "name", req.Msg.Name)

	book, err := s.authz.CreateBook(ctx, caller, models.BookInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		IsPersonal:  req.Msg.IsPersonal,
	})
	if err != nil {
		return nil, fail("CreateBook", err, "user_id", caller.UserID)
	}
	return connect.NewResponse(&api.CreateBookResponse{Book: toAPIBook(book, models.RoleAdmin)}), nil
}

// GetBook returns one book with the caller's role in it.
func (s *BookService) GetBook(ctx context.Context, req *connect.Request[api.GetBookRequest]) (*connect.Response[api.GetBookResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("GetBook request received", "user_id", caller.UserID, "book_id", req.Msg.BookID)

	book, err := s.authz.GetBook(ctx, caller, req.Msg.BookID)
	if err != nil {
		return nil, fail("GetBook", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.GetBookResponse{Book: toAPIBook(&book.AccountBook, book.UserRole)}), nil
}

// UpdateBook renames a book.
func (s *BookService) UpdateBook(ctx context.Context, req *connect.Request[api.UpdateBookRequest]) (*connect.Response[api.UpdateBookResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("UpdateBook request received", "user_id", caller.UserID, "book_id", req.Msg.BookID)

	book, err := s.authz.UpdateBook(ctx, caller, req.Msg.BookID, models.BookInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, fail("UpdateBook", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	// Only managers reach this point, and managers are admins.
	return connect.NewResponse(&api.UpdateBookResponse{Book: toAPIBook(book, models.RoleAdmin)}), nil
}

// DeleteBook removes a book. Owner only.
func (s *BookService) DeleteBook(ctx context.Context, req *connect.Request[api.DeleteBookRequest]) (*connect.Response[api.DeleteBookResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("DeleteBook request received", "user_id", caller.UserID, "book_id", req.Msg.BookID)

	if err := s.authz.DeleteBook(ctx, caller, req.Msg.BookID); err != nil {
		return nil, fail("DeleteBook", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.DeleteBookResponse{}), nil
}

// AddMember adds a user to a book or changes their role.
func (s *BookService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("AddMember request received",
		"user_id", caller.UserID,
		"book_id", req.Msg.BookID,
		"member_id", req.Msg.UserID,
		"role", req.Msg.Role,
	)

	role := models.Role(req.Msg.Role)
	if role == "" {
		role = models.RoleMember
	}
	member, err := s.authz.AddMember(ctx, caller, req.Msg.BookID,
		models.MemberRef{UserID: req.Msg.UserID, Email: req.Msg.Email}, role)
	if err != nil {
		return nil, fail("AddMember", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(*member)}), nil
}

// RemoveMember revokes a membership.
func (s *BookService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	caller := middleware.CallerFrom(ctx)
	slog.Info("RemoveMember request received", "user_id", caller.UserID, "book_id", req.Msg.BookID, "member_id", req.Msg.UserID)

	if err := s.authz.RemoveMember(ctx, caller, req.Msg.BookID, req.Msg.UserID); err != nil {
		return nil, fail("RemoveMember", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// ListMembers returns a book's roster.
func (s *BookService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	caller := middleware.CallerFrom(ctx)

	members, err := s.authz.ListMembers(ctx, caller, req.Msg.BookID)
	if err != nil {
		return nil, fail("ListMembers", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// GetBookAccess reports what the caller may do with a book.
func (s *BookService) GetBookAccess(ctx context.Context, req *connect.Request[api.GetBookAccessRequest]) (*connect.Response[api.GetBookAccessResponse], error) {
	caller := middleware.CallerFrom(ctx)

	acc, err := s.authz.Access(ctx, caller, req.Msg.BookID)
	if err != nil {
		return nil, fail("GetBookAccess", err, "user_id", caller.UserID, "book_id", req.Msg.BookID)
	}
	return connect.NewResponse(&api.GetBookAccessResponse{
		CanView:   acc.CanView,
		CanManage: acc.CanManage,
		Role:      string(acc.Role),
	}), nil
}
