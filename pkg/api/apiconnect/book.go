package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/ledgerbook/pkg/api"
)

// BookServiceName is the fully-qualified name of the BookService.
const BookServiceName = "ledgerbook.v1.BookService"

// Procedure paths of the BookService.
const (
	BookServiceListBooksProcedure     = "/ledgerbook.v1.BookService/ListBooks"
	BookServiceCreateBookProcedure    = "/ledgerbook.v1.BookService/CreateBook"
	BookServiceGetBookProcedure       = "/ledgerbook.v1.BookService/GetBook"
	BookServiceUpdateBookProcedure    = "/ledgerbook.v1.BookService/UpdateBook"
	BookServiceDeleteBookProcedure    = "/ledgerbook.v1.BookService/DeleteBook"
	BookServiceAddMemberProcedure     = "/ledgerbook.v1.BookService/AddMember"
	BookServiceRemoveMemberProcedure  = "/ledgerbook.v1.BookService/RemoveMember"
	BookServiceListMembersProcedure   = "/ledgerbook.v1.BookService/ListMembers"
	BookServiceGetBookAccessProcedure = "/ledgerbook.v1.BookService/GetBookAccess"
)

// BookServiceHandler serves account books, membership and access checks.
type BookServiceHandler interface {
	ListBooks(context.Context, *connect.Request[api.ListBooksRequest]) (*connect.Response[api.ListBooksResponse], error)
	CreateBook(context.Context, *connect.Request[api.CreateBookRequest]) (*connect.Response[api.CreateBookResponse], error)
	GetBook(context.Context, *connect.Request[api.GetBookRequest]) (*connect.Response[api.GetBookResponse], error)
	UpdateBook(context.Context, *connect.Request[api.UpdateBookRequest]) (*connect.Response[api.UpdateBookResponse], error)
	DeleteBook(context.Context, *connect.Request[api.DeleteBookRequest]) (*connect.Response[api.DeleteBookResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetBookAccess(context.Context, *connect.Request[api.GetBookAccessRequest]) (*connect.Response[api.GetBookAccessResponse], error)
}

// NewBookServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBookServiceHandler(svc BookServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BookServiceListBooksProcedure, connect.NewUnaryHandler(BookServiceListBooksProcedure, svc.ListBooks, opts...))
	mux.Handle(BookServiceCreateBookProcedure, connect.NewUnaryHandler(BookServiceCreateBookProcedure, svc.CreateBook, opts...))
	mux.Handle(BookServiceGetBookProcedure, connect.NewUnaryHandler(BookServiceGetBookProcedure, svc.GetBook, opts...))
	mux.Handle(BookServiceUpdateBookProcedure, connect.NewUnaryHandler(BookServiceUpdateBookProcedure, svc.UpdateBook, opts...))
	mux.Handle(BookServiceDeleteBookProcedure, connect.NewUnaryHandler(BookServiceDeleteBookProcedure, svc.DeleteBook, opts...))
	mux.Handle(BookServiceAddMemberProcedure, connect.NewUnaryHandler(BookServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(BookServiceRemoveMemberProcedure, connect.NewUnaryHandler(BookServiceRemoveMemberProcedure, svc.RemoveMember, opts...))
	mux.Handle(BookServiceListMembersProcedure, connect.NewUnaryHandler(BookServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(BookServiceGetBookAccessProcedure, connect.NewUnaryHandler(BookServiceGetBookAccessProcedure, svc.GetBookAccess, opts...))
	return "/" + BookServiceName + "/", mux
}

// BookServiceClient is a client for the BookService.
type BookServiceClient interface {
	ListBooks(context.Context, *connect.Request[api.ListBooksRequest]) (*connect.Response[api.ListBooksResponse], error)
	CreateBook(context.Context, *connect.Request[api.CreateBookRequest]) (*connect.Response[api.CreateBookResponse], error)
	GetBook(context.Context, *connect.Request[api.GetBookRequest]) (*connect.Response[api.GetBookResponse], error)
	UpdateBook(context.Context, *connect.Request[api.UpdateBookRequest]) (*connect.Response[api.UpdateBookResponse], error)
	DeleteBook(context.Context, *connect.Request[api.DeleteBookRequest]) (*connect.Response[api.DeleteBookResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetBookAccess(context.Context, *connect.Request[api.GetBookAccessRequest]) (*connect.Response[api.GetBookAccessResponse], error)
}

// NewBookServiceClient constructs a client for the BookService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewBookServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BookServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &bookServiceClient{
		listBooks:     connect.NewClient[api.ListBooksRequest, api.ListBooksResponse](httpClient, baseURL+BookServiceListBooksProcedure, opts...),
		createBook:    connect.NewClient[api.CreateBookRequest, api.CreateBookResponse](httpClient, baseURL+BookServiceCreateBookProcedure, opts...),
		getBook:       connect.NewClient[api.GetBookRequest, api.GetBookResponse](httpClient, baseURL+BookServiceGetBookProcedure, opts...),
		updateBook:    connect.NewClient[api.UpdateBookRequest, api.UpdateBookResponse](httpClient, baseURL+BookServiceUpdateBookProcedure, opts...),
		deleteBook:    connect.NewClient[api.DeleteBookRequest, api.DeleteBookResponse](httpClient, baseURL+BookServiceDeleteBookProcedure, opts...),
		addMember:     connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+BookServiceAddMemberProcedure, opts...),
		removeMember:  connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+BookServiceRemoveMemberProcedure, opts...),
		listMembers:   connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+BookServiceListMembersProcedure, opts...),
		getBookAccess: connect.NewClient[api.GetBookAccessRequest, api.GetBookAccessResponse](httpClient, baseURL+BookServiceGetBookAccessProcedure, opts...),
	}
}

type bookServiceClient struct {
	listBooks     *connect.Client[api.ListBooksRequest, api.ListBooksResponse]
	createBook    *connect.Client[api.CreateBookRequest, api.CreateBookResponse]
	getBook       *connect.Client[api.GetBookRequest, api.GetBookResponse]
	updateBook    *connect.Client[api.UpdateBookRequest, api.UpdateBookResponse]
	deleteBook    *connect.Client[api.DeleteBookRequest, api.DeleteBookResponse]
	addMember     *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember  *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	listMembers   *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	getBookAccess *connect.Client[api.GetBookAccessRequest, api.GetBookAccessResponse]
}

func (c *bookServiceClient) ListBooks(ctx context.Context, req *connect.Request[api.ListBooksRequest]) (*connect.Response[api.ListBooksResponse], error) {
	return c.listBooks.CallUnary(ctx, req)
}

func (c *bookServiceClient) CreateBook(ctx context.Context, req *connect.Request[api.CreateBookRequest]) (*connect.Response[api.CreateBookResponse], error) {
	return c.createBook.CallUnary(ctx, req)
}

func (c *bookServiceClient) GetBook(ctx context.Context, req *connect.Request[api.GetBookRequest]) (*connect.Response[api.GetBookResponse], error) {
	return c.getBook.CallUnary(ctx, req)
}

func (c *bookServiceClient) UpdateBook(ctx context.Context, req *connect.Request[api.UpdateBookRequest]) (*connect.Response[api.UpdateBookResponse], error) {
	return c.updateBook.CallUnary(ctx, req)
}

func (c *bookServiceClient) DeleteBook(ctx context.Context, req *connect.Request[api.DeleteBookRequest]) (*connect.Response[api.DeleteBookResponse], error) {
	return c.deleteBook.CallUnary(ctx, req)
}

func (c *bookServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *bookServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *bookServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *bookServiceClient) GetBookAccess(ctx context.Context, req *connect.Request[api.GetBookAccessRequest]) (*connect.Response[api.GetBookAccessResponse], error) {
	return c.getBookAccess.CallUnary(ctx, req)
}
