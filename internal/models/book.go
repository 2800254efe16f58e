package models

// Role is a member's permission level inside one book.
type Role string

const (
	// RoleAdmin may manage membership and any member's transactions.
	RoleAdmin Role = "admin"
	// RoleMember may view the book and manage only their own transactions.
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// AccountBook is a named ledger shared by its members.
type AccountBook struct {
	// ID is the unique identifier for the book (UUID format).
	ID string

	// Name is the display name of the book (e.g., "Flat 3B", "Trip to Lisbon").
	Name string

	// Description is an optional free-form description.
	Description string

	// IsPersonal marks books meant for a single user.
	IsPersonal bool

	// OwnerID is the user who created the book. Ownership never changes.
	OwnerID string

	// CreatedAt is the Unix timestamp (microseconds) when the book was created.
	CreatedAt int64
}

// BookSummary is a book as seen by one user, annotated with that user's role.
type BookSummary struct {
	AccountBook
	UserRole Role
}

// Membership links a user to a book with a role.
type Membership struct {
	BookID string
	UserID string
	Role   Role

	// CreatedAt is the Unix timestamp (microseconds) when the row was inserted.
	CreatedAt int64
}

// MemberBook is a membership row joined with the book it points to.
type MemberBook struct {
	Book AccountBook
	Role Role
}

// Member is a roster entry with display identity.
type Member struct {
	UserID      string
	DisplayName string
	Email       string
	Role        Role
}

// BookInput holds the client-supplied fields for creating or renaming a book.
type BookInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	IsPersonal  bool
}

// MemberRef identifies the user to add to a book.
// Only UserID can be resolved locally; Email requires an invitation flow.
type MemberRef struct {
	UserID string
	Email  string
}

// BookAccess is the caller's effective permission on one book.
// Role is empty when the caller cannot view the book.
type BookAccess struct {
	BookID    string
	CanView   bool
	CanManage bool
	Role      Role
}
