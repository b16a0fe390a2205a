// Package explorer drives a user's view of their drive: which folder is open, the path
// to it, and the listing, plus the create/rename/delete/preview operations on entries.
package explorer

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"drive-service/internal/cache"
	"drive-service/internal/domain/entry"
	"drive-service/internal/session"
	apperrors "drive-service/pkg/errors"
	"drive-service/pkg/logger"
	"drive-service/pkg/validator"

	"github.com/google/uuid"
)

type DeletePolicy string

const (
	// DeleteBestEffort logs storage removal failures and reports the delete as successful.
	DeleteBestEffort DeletePolicy = "best-effort"
	// DeleteStrict still removes the metadata but reports ErrPartialDelete.
	DeleteStrict DeletePolicy = "strict"
)

const (
	DefaultMaxDepth   = 64
	DefaultPreviewTTL = 3600 * time.Second

	logRefreshFailedFmt    = "explorer: refresh after %s failed: %v"
	logRemoveFailedFmt     = "explorer: removing %d blob(s) for entry %s failed: %v"
	logPreviewFailedFmt    = "explorer: preview for entry %s failed: %v"
	logBreadcrumbFailedFmt = "explorer: breadcrumbs for folder %s: %v"
)

type EntryStore interface {
	List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]*entry.Entry, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entry.Entry, error)
	Create(ctx context.Context, input entry.CreateInput) (*entry.Entry, error)
	UpdateName(ctx context.Context, ownerID, id uuid.UUID, name string) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ObjectStore interface {
	Remove(ctx context.Context, keys []string) error
	CreateSignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type URLCache interface {
	GetOrSign(ctx context.Context, key string, ttl time.Duration, sign cache.SignFunc) (string, time.Time, error)
	Delete(key string)
}

type Options struct {
	DeletePolicy DeletePolicy
	MaxDepth     int
	PreviewTTL   time.Duration
	Cache        URLCache
	Logger       *log.Logger
}

// View is a snapshot of the controller state.
type View struct {
	CurrentFolderID *uuid.UUID         `json:"current_folder_id"`
	Breadcrumbs     []entry.Breadcrumb `json:"breadcrumbs"`
	Items           []*entry.Entry     `json:"items"`
	Error           string             `json:"error,omitempty"`
}

// Controller holds one session's explorer state. Store calls are made without holding
// the state lock, and whichever result is applied last wins.
type Controller struct {
	sess    session.Session
	entries EntryStore
	objects ObjectStore
	opts    Options

	mu          sync.Mutex
	currentID   *uuid.UUID
	breadcrumbs []entry.Breadcrumb
	items       []*entry.Entry
	lastErr     error
}

func New(sess session.Session, entries EntryStore, objects ObjectStore, opts Options) *Controller {
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = DeleteBestEffort
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = DefaultPreviewTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Controller{
		sess:        sess,
		entries:     entries,
		objects:     objects,
		opts:        opts,
		breadcrumbs: []entry.Breadcrumb{entry.RootBreadcrumb()},
		items:       []*entry.Entry{},
	}
}

func (c *Controller) CurrentFolderID() *uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyID(c.currentID)
}

func (c *Controller) Breadcrumbs() []entry.Breadcrumb {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entry.Breadcrumb(nil), c.breadcrumbs...)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		CurrentFolderID: copyID(c.currentID),
		Breadcrumbs:     append([]entry.Breadcrumb(nil), c.breadcrumbs...),
		Items:           append([]*entry.Entry{}, c.items...),
	}
	if c.lastErr != nil {
		v.Error = apperrors.PublicMessage(c.lastErr, c.lastErr.Error())
	}
	return v
}

// ListChildren returns the direct children of folderID (nil for the root), folders
// first and then by name.
func (c *Controller) ListChildren(ctx context.Context, folderID *uuid.UUID) ([]*entry.Entry, error) {
	if !c.sess.Valid() {
		return nil, errNoSession
	}

	items, err := c.entries.List(ctx, c.sess.OwnerID, folderID)
	if err != nil {
		return nil, apperrors.Wrap(ErrListFailed, err)
	}

	sortEntries(items)
	return items, nil
}

// Refresh re-lists the current folder and replaces the cached listing.
func (c *Controller) Refresh(ctx context.Context) error {
	folderID := c.CurrentFolderID()

	items, err := c.ListChildren(ctx, folderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

// Lookup loads one of the owner's entries by id.
func (c *Controller) Lookup(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	if !c.sess.Valid() {
		return nil, errNoSession
	}

	e, err := c.entries.GetByID(ctx, c.sess.OwnerID, id)
	if err != nil {
		return nil, apperrors.Wrap(ErrLookupFailed, err)
	}
	return e, nil
}

// NavigateInto opens a folder from the current listing.
func (c *Controller) NavigateInto(ctx context.Context, folder *entry.Entry) error {
	if folder == nil || !folder.IsFolder() {
		return ErrNotAFolder
	}
	id := folder.ID
	return c.goTo(ctx, &id)
}

// NavigateUp opens the parent of the current folder. It does nothing at the root.
func (c *Controller) NavigateUp(ctx context.Context) error {
	c.mu.Lock()
	currentID := c.currentID
	crumbs := c.breadcrumbs
	c.mu.Unlock()

	if currentID == nil {
		return nil
	}

	if n := len(crumbs); n >= 2 && crumbs[n-1].ID != nil && *crumbs[n-1].ID == *currentID {
		return c.goTo(ctx, copyID(crumbs[n-2].ID))
	}

	current, err := c.Lookup(ctx, *currentID)
	if err != nil {
		return err
	}
	return c.goTo(ctx, copyID(current.ParentID))
}

// Open makes folderID (nil for the root) the current folder.
func (c *Controller) Open(ctx context.Context, folderID *uuid.UUID) error {
	if folderID != nil {
		folder, err := c.Lookup(ctx, *folderID)
		if err != nil {
			return err
		}
		if !folder.IsFolder() {
			return ErrNotAFolder
		}
	}
	return c.goTo(ctx, copyID(folderID))
}

func (c *Controller) goTo(ctx context.Context, folderID *uuid.UUID) error {
	if !c.sess.Valid() {
		return errNoSession
	}

	c.mu.Lock()
	c.currentID = folderID
	c.mu.Unlock()

	crumbErr := c.refreshBreadcrumbs(ctx, folderID)
	listErr := c.Refresh(ctx)

	return errors.Join(crumbErr, listErr)
}

func (c *Controller) refreshBreadcrumbs(ctx context.Context, folderID *uuid.UUID) error {
	crumbs, err := c.RebuildBreadcrumbs(ctx, folderID)
	if err != nil {
		c.opts.Logger.Printf(logBreadcrumbFailedFmt, folderID, logger.SanitizeLogMessage(err.Error()))
	}

	c.mu.Lock()
	c.breadcrumbs = crumbs
	c.mu.Unlock()

	return err
}

// CreateFolder creates a folder inside the current folder and refreshes the listing.
func (c *Controller) CreateFolder(ctx context.Context, name string) (*entry.Entry, error) {
	return c.CreateFolderIn(ctx, c.CurrentFolderID(), name)
}

// CreateFolderIn creates a folder under parentID (nil for the root). The listing is
// refreshed when parentID is the current folder.
func (c *Controller) CreateFolderIn(ctx context.Context, parentID *uuid.UUID, name string) (*entry.Entry, error) {
	if !c.sess.Valid() {
		return nil, errNoSession
	}

	clean, err := validator.EntryName(name)
	if err != nil {
		return nil, apperrors.Detail(ErrInvalidName, err.Error())
	}

	folder, err := c.entries.Create(ctx, entry.CreateInput{
		OwnerID:  c.sess.OwnerID,
		ParentID: copyID(parentID),
		Name:     clean,
	})
	if err != nil {
		return nil, apperrors.Wrap(ErrCreateFailed, err)
	}

	if entry.SameParent(parentID, c.CurrentFolderID()) {
		c.refreshQuietly(ctx, "create")
	}
	return folder, nil
}

// Rename changes only the display name of an entry. A file keeps its storage key.
func (c *Controller) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	if !c.sess.Valid() {
		return errNoSession
	}

	clean, err := validator.EntryName(newName)
	if err != nil {
		return apperrors.Detail(ErrInvalidName, err.Error())
	}

	if err := c.entries.UpdateName(ctx, c.sess.OwnerID, id, clean); err != nil {
		return apperrors.Wrap(ErrRenameFailed, err)
	}

	c.refreshQuietly(ctx, "rename")
	if c.onPath(id) {
		_ = c.refreshBreadcrumbs(ctx, c.CurrentFolderID())
	}
	return nil
}

// Preview returns a signed URL for a file, or false when none could be produced.
func (c *Controller) Preview(ctx context.Context, file *entry.Entry) (string, bool) {
	url, _, err := c.SignedURL(ctx, file)
	if err != nil {
		if file != nil {
			c.opts.Logger.Printf(logPreviewFailedFmt, file.ID, logger.SanitizeLogMessage(err.Error()))
		}
		return "", false
	}
	return url, true
}

// SignedURL is Preview with the failure reason (ErrNotAFile or ErrPreviewFailed) and
// the moment the returned link expires.
func (c *Controller) SignedURL(ctx context.Context, file *entry.Entry) (string, time.Time, error) {
	if file == nil || file.IsFolder() || file.StorageKey() == "" {
		return "", time.Time{}, ErrNotAFile
	}

	key := file.StorageKey()
	sign := func(ctx context.Context) (string, error) {
		return c.objects.CreateSignedURL(ctx, key, c.opts.PreviewTTL)
	}

	var (
		url     string
		expires time.Time
		err     error
	)
	if c.opts.Cache != nil {
		url, expires, err = c.opts.Cache.GetOrSign(ctx, key, c.opts.PreviewTTL, sign)
	} else {
		expires = time.Now().Add(c.opts.PreviewTTL)
		url, err = sign(ctx)
	}
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(ErrPreviewFailed, err)
	}
	return url, expires, nil
}

func (c *Controller) refreshQuietly(ctx context.Context, op string) {
	if err := c.Refresh(ctx); err != nil {
		c.opts.Logger.Printf(logRefreshFailedFmt, op, logger.SanitizeLogMessage(err.Error()))
	}
}

// onPath reports whether id is one of the folders on the current breadcrumb path.
func (c *Controller) onPath(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, crumb := range c.breadcrumbs {
		if crumb.ID != nil && *crumb.ID == id {
			return true
		}
	}
	return false
}

// sortEntries orders folders before files and each group by name.
func sortEntries(items []*entry.Entry) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsFolder() != items[j].IsFolder() {
			return items[i].IsFolder()
		}
		return items[i].Name < items[j].Name
	})
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
