package store

import "context"

// BookmarkStoreIface exposes all bookmark data operations.
// No handler may query the DB directly; all access goes through this interface.
type BookmarkStoreIface interface {
	ListAll(ctx context.Context) ([]*Bookmark, error)
	GetByID(ctx context.Context, id int64) (*Bookmark, error)
	Insert(ctx context.Context, nb NewBookmark) (*Bookmark, error)
	Update(ctx context.Context, id int64, patch BookmarkPatch) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
