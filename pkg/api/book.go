package api

// Book is an account book as seen by the caller.
type Book struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPersonal  bool   `json:"isPersonal"`
	OwnerID     string `json:"ownerId"`
	CreatedAt   int64  `json:"createdAt"`
	UserRole    string `json:"userRole,omitempty"`
}

// Member is one entry of a book's roster.
type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
}

type ListBooksRequest struct{}

type ListBooksResponse struct {
	Books []*Book `json:"books"`
}

type CreateBookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPersonal  bool   `json:"isPersonal,omitempty"`
}

type CreateBookResponse struct {
	Book *Book `json:"book"`
}

type GetBookRequest struct {
	BookID string `json:"bookId"`
}

type GetBookResponse struct {
	Book *Book `json:"book"`
}

type UpdateBookRequest struct {
	BookID      string `json:"bookId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateBookResponse struct {
	Book *Book `json:"book"`
}

type DeleteBookRequest struct {
	BookID string `json:"bookId"`
}

type DeleteBookResponse struct{}

// AddMemberRequest names the new member by user ID. Email-only requests are
// reserved for invitations and currently fail with CodeUnimplemented.
type AddMemberRequest struct {
	BookID string `json:"bookId"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	BookID string `json:"bookId"`
	UserID string `json:"userId"`
}

type RemoveMemberResponse struct{}

type ListMembersRequest struct {
	BookID string `json:"bookId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type GetBookAccessRequest struct {
	BookID string `json:"bookId"`
}

type GetBookAccessResponse struct {
	CanView   bool   `json:"canView"`
	CanManage bool   `json:"canManage"`
	Role      string `json:"role,omitempty"`
}
