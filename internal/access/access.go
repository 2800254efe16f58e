// Package access decides who may see and change a book.
//
// Every check takes the caller explicitly. A check whose lookup fails
// denies access; nothing here defaults to allow.
package access

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/metrics"
	"github.com/mmynk/ledgerbook/internal/models"
	"github.com/mmynk/ledgerbook/internal/storage"
	"github.com/mmynk/ledgerbook/internal/validate"
)

// CacheConfig bounds the per-user visible-books cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig is used when a field of CacheConfig is zero.
var DefaultCacheConfig = CacheConfig{Size: 1024, TTL: 30 * time.Second}

// Authorizer evaluates view and manage permissions and owns the book and
// membership operations that change them.
type Authorizer struct {
	store    storage.Store
	validate *validate.Validator
	metrics  *metrics.Metrics

	// visible caches ListBooks results keyed by user ID.
	visible *expirable.LRU[string, []models.BookSummary]
	loads   singleflight.Group

	// gens counts invalidations per user and epoch counts purges. A load
	// only fills the cache if neither moved while it was reading the store.
	mu    sync.Mutex
	gens  map[string]uint64
	epoch uint64
}

// NewAuthorizer creates an Authorizer backed by store. m may be nil.
func NewAuthorizer(store storage.Store, v *validate.Validator, m *metrics.Metrics, cfg CacheConfig) *Authorizer {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheConfig.Size
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheConfig.TTL
	}
	return &Authorizer{
		store:    store,
		validate: v,
		metrics:  m,
		visible:  expirable.NewLRU[string, []models.BookSummary](cfg.Size, nil, cfg.TTL),
		gens:     make(map[string]uint64),
	}
}

// CanView reports whether caller owns bookID or holds any membership in it.
func (a *Authorizer) CanView(ctx context.Context, caller models.Caller, bookID string) bool {
	if !caller.Authenticated() || bookID == "" {
		return false
	}
	books, err := a.visibleBooks(ctx, caller.UserID)
	if err != nil {
		slog.Warn("Visible books lookup failed", "user_id", caller.UserID, "book_id", bookID, "error", err)
		return false
	}
	return slices.ContainsFunc(books, func(b models.BookSummary) bool { return b.ID == bookID })
}

// CanManage reports whether caller owns bookID or is an admin of it.
// It always reads the store so a revoked admin loses access immediately.
func (a *Authorizer) CanManage(ctx context.Context, caller models.Caller, bookID string) bool {
	if !caller.Authenticated() || bookID == "" {
		return false
	}
	role, err := a.roleOf(ctx, caller.UserID, bookID)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			slog.Warn("Manage lookup failed", "user_id", caller.UserID, "book_id", bookID, "error", err)
		}
		return false
	}
	return role == models.RoleAdmin
}

// RequireView fails with ErrUnauthenticated or ErrForbidden unless caller can view bookID.
func (a *Authorizer) RequireView(ctx context.Context, caller models.Caller, bookID string) error {
	if !caller.Authenticated() {
		return errs.ErrUnauthenticated
	}
	if !a.CanView(ctx, caller, bookID) {
		a.metrics.Denied("view")
		return errs.Forbidden("user %s cannot view book %s", caller.UserID, bookID)
	}
	return nil
}

// RequireManage fails with ErrUnauthenticated or ErrForbidden unless caller can manage bookID.
func (a *Authorizer) RequireManage(ctx context.Context, caller models.Caller, bookID string) error {
	if !caller.Authenticated() {
		return errs.ErrUnauthenticated
	}
	if !a.CanManage(ctx, caller, bookID) {
		a.metrics.Denied("manage")
		return errs.Forbidden("user %s cannot manage book %s", caller.UserID, bookID)
	}
	return nil
}

// Access returns caller's effective permissions on bookID.
func (a *Authorizer) Access(ctx context.Context, caller models.Caller, bookID string) (*models.BookAccess, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrUnauthenticated
	}
	access := &models.BookAccess{BookID: bookID}
	role, err := a.roleOf(ctx, caller.UserID, bookID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return access, nil
	case err != nil:
		return nil, err
	}
	access.CanView = true
	access.CanManage = role == models.RoleAdmin
	access.Role = role
	return access, nil
}

// roleOf resolves userID's role in bookID from the store. The owner is always admin.
// A user with no relation to the book gets ErrNotFound.
func (a *Authorizer) roleOf(ctx context.Context, userID, bookID string) (models.Role, error) {
	book, err := a.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.OwnerID == userID {
		return models.RoleAdmin, nil
	}
	m, err := a.store.GetMembership(ctx, bookID, userID)
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// ListBooks returns every book caller owns or belongs to and refreshes the cache.
func (a *Authorizer) ListBooks(ctx context.Context, caller models.Caller) ([]models.BookSummary, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrUnauthenticated
	}
	gen := a.generation(caller.UserID)
	books, err := a.loadBooks(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	a.cache(caller.UserID, gen, books)
	return books, nil
}

// visibleBooks serves the caller's book list from cache, loading it once on a miss.
func (a *Authorizer) visibleBooks(ctx context.Context, userID string) ([]models.BookSummary, error) {
	if books, ok := a.visible.Get(userID); ok {
		a.metrics.CacheLookup(true)
		return books, nil
	}
	a.metrics.CacheLookup(false)

	v, err, _ := a.loads.Do(userID, func() (any, error) {
		gen := a.generation(userID)
		books, err := a.loadBooks(ctx, userID)
		if err != nil {
			return nil, err
		}
		a.cache(userID, gen, books)
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.BookSummary), nil
}

func (a *Authorizer) loadBooks(ctx context.Context, userID string) ([]models.BookSummary, error) {
	owned, err := a.store.ListOwnedBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberOf, err := a.store.ListMemberBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MergeBooks(owned, memberOf), nil
}

// invalidate drops cached views for the given users. Loads already in
// flight for them will not write their results back.
func (a *Authorizer) invalidate(userIDs ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range userIDs {
		a.gens[id]++
		a.visible.Remove(id)
		a.loads.Forget(id)
	}
}

// purge drops every cached view.
func (a *Authorizer) purge() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epoch++
	a.visible.Purge()
}

// generation only grows, so it changes whenever userID is invalidated or the cache is purged.
func (a *Authorizer) generation(userID string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.epoch + a.gens[userID]
}

// cache stores books for userID unless the user was invalidated since gen was read.
func (a *Authorizer) cache(userID string, gen uint64, books []models.BookSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.epoch+a.gens[userID] != gen {
		return
	}
	a.visible.Add(userID, books)
}

// MergeBooks combines owned books and membership rows into one list.
//
// Owned books come first, in the given order, always with role admin.
// A membership row for a book already seen is dropped, so the owner entry
// wins over the owner's own membership row. Remaining membership rows keep
// their order and role.
func MergeBooks(owned []*models.AccountBook, memberOf []*models.MemberBook) []models.BookSummary {
	seen := make(map[string]struct{}, len(owned)+len(memberOf))
	result := make([]models.BookSummary, 0, len(owned)+len(memberOf))

	for _, b := range owned {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		result = append(result, models.BookSummary{AccountBook: *b, UserRole: models.RoleAdmin})
	}
	for _, mb := range memberOf {
		if _, dup := seen[mb.Book.ID]; dup {
			continue
		}
		seen[mb.Book.ID] = struct{}{}
		result = append(result, models.BookSummary{AccountBook: mb.Book, UserRole: mb.Role})
	}
	return result
}
