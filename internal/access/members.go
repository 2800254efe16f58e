package access

import (
	"context"
	"log/slog"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

// AddMember grants ref a role in bookID, or changes the role of an existing member.
//
// Only a user ID can be resolved. A reference carrying only an email address
// needs an invitation flow and fails with ErrNotImplemented.
func (a *Authorizer) AddMember(ctx context.Context, caller models.Caller, bookID string, ref models.MemberRef, role models.Role) (*models.Member, error) {
	if err := a.RequireManage(ctx, caller, bookID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, errs.Validation("role %q must be admin or member", role)
	}
	if ref.UserID == "" {
		if ref.Email != "" {
			return nil, errs.ErrNotImplemented
		}
		return nil, errs.Validation("member reference needs a user id")
	}

	user, err := a.store.GetUserByID(ctx, ref.UserID)
	if err != nil {
		return nil, err
	}
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID == user.ID {
		return nil, errs.Validation("the owner's role cannot be changed")
	}

	if err := a.store.AddMember(ctx, &models.Membership{BookID: bookID, UserID: user.ID, Role: role}); err != nil {
		return nil, err
	}
	a.invalidate(user.ID)

	slog.Info("Member added", "book_id", bookID, "user_id", user.ID, "role", role, "by", caller.UserID)
	return &models.Member{UserID: user.ID, DisplayName: user.DisplayName, Email: user.Email, Role: role}, nil
}

// RemoveMember revokes userID's membership in bookID. The owner cannot be removed.
func (a *Authorizer) RemoveMember(ctx context.Context, caller models.Caller, bookID, userID string) error {
	if err := a.RequireManage(ctx, caller, bookID); err != nil {
		return err
	}
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if book.OwnerID == userID {
		return errs.Validation("the owner cannot be removed from book %s", bookID)
	}
	if err := a.store.RemoveMember(ctx, bookID, userID); err != nil {
		return err
	}
	a.invalidate(userID)

	slog.Info("Member removed", "book_id", bookID, "user_id", userID, "by", caller.UserID)
	return nil
}

// ListMembers returns the roster of bookID. The owner comes first, as admin,
// whether or not a membership row exists for them.
func (a *Authorizer) ListMembers(ctx context.Context, caller models.Caller, bookID string) ([]models.Member, error) {
	if err := a.RequireView(ctx, caller, bookID); err != nil {
		return nil, err
	}
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	rows, err := a.store.ListMembers(ctx, bookID)
	if err != nil {
		return nil, err
	}

	members := []models.Member{{UserID: book.OwnerID, Role: models.RoleAdmin}}
	ids := []string{book.OwnerID}
	for _, m := range rows {
		if m.UserID == book.OwnerID {
			continue
		}
		members = append(members, models.Member{UserID: m.UserID, Role: m.Role})
		ids = append(ids, m.UserID)
	}

	users, err := a.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if u, ok := users[members[i].UserID]; ok {
			members[i].DisplayName = u.DisplayName
			members[i].Email = u.Email
		}
	}
	return members, nil
}
