package stories

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"storyvoice/internal/models"
	"storyvoice/internal/watch"
)

// snippetBudget is the character budget for collapsed list entries.
const snippetBudget = 50

// SessionReader exposes the current session's user id. Collection and
// RequestFlow use it to detect that the session changed while a remote
// call was in flight.
type SessionReader interface {
	UserID() string
}

// Collection is the client-side cache of a user's saved narratives. The
// snapshot is replaced atomically by Refresh and only ever mutated by
// the collection's own operations; readers get copies.
type Collection struct {
	api      API
	session  SessionReader
	logger   *zap.Logger
	notifier *watch.Notifier

	mu         sync.RWMutex
	records    []models.StoryRecord
	expandedID string
}

// NewCollection creates an empty collection backed by the story API.
func NewCollection(api API, session SessionReader, logger *zap.Logger) *Collection {
	return &Collection{
		api:      api,
		session:  session,
		logger:   logger.Named("StoryCollection"),
		notifier: watch.NewNotifier(),
	}
}

// Refresh fetches all records owned by userID and replaces the snapshot
// atomically. On transport failure the previous snapshot stays intact;
// stale data beats an empty list. A result arriving after the session
// moved on (e.g. logout during the fetch) is discarded.
func (c *Collection) Refresh(ctx context.Context, userID string) error {
	records, err := c.api.List(ctx, userID)
	if err != nil {
		c.logger.Warn("Refresh failed, keeping previous snapshot",
			zap.String("userID", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrFetchFailed, err)
	}

	if c.session.UserID() != userID {
		c.logger.Info("Discarding stale refresh result", zap.String("userID", userID))
		return nil
	}

	c.mu.Lock()
	c.records = records
	if c.expandedID != "" && !containsID(records, c.expandedID) {
		c.expandedID = ""
	}
	c.mu.Unlock()

	c.logger.Debug("Snapshot refreshed", zap.String("userID", userID), zap.Int("count", len(records)))
	c.notifier.Notify()
	return nil
}

// Delete removes one record from the remote store and, on success, from
// the snapshot. On failure the snapshot is unchanged so the user can
// retry.
func (c *Collection) Delete(ctx context.Context, recordID, userID string) error {
	if err := c.api.Delete(ctx, recordID, userID); err != nil {
		c.logger.Warn("Delete failed", zap.String("recordID", recordID), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrDeleteFailed, err)
	}

	c.mu.Lock()
	kept := c.records[:0:0]
	for _, r := range c.records {
		if r.ID != recordID {
			kept = append(kept, r)
		}
	}
	c.records = kept
	if c.expandedID == recordID {
		c.expandedID = ""
	}
	c.mu.Unlock()

	c.notifier.Notify()
	return nil
}

// InsertFresh optimistically inserts a just-generated record at the
// head of the snapshot, matching the store's newest-first order, so the
// new narrative appears without a full refresh.
func (c *Collection) InsertFresh(record models.StoryRecord) {
	c.mu.Lock()
	c.records = append([]models.StoryRecord{record}, c.records...)
	c.mu.Unlock()

	c.logger.Debug("Fresh record inserted", zap.String("recordID", record.ID))
	c.notifier.Notify()
}

// Records returns a copy of the current snapshot.
func (c *Collection) Records() []models.StoryRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.StoryRecord, len(c.records))
	copy(out, c.records)
	return out
}

// ToggleExpand expands the given record, collapsing any other; toggling
// the already-expanded record collapses it.
func (c *Collection) ToggleExpand(recordID string) {
	c.mu.Lock()
	if c.expandedID == recordID {
		c.expandedID = ""
	} else {
		c.expandedID = recordID
	}
	c.mu.Unlock()

	c.notifier.Notify()
}

// ExpandedID returns the id of the currently expanded record, or "".
func (c *Collection) ExpandedID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expandedID
}

// Watch subscribes to collection changes.
func (c *Collection) Watch() (<-chan struct{}, func()) {
	return c.notifier.Watch()
}

// Snippet truncates a narrative to the collapsed-view budget, marking
// the cut with an ellipsis.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetBudget {
		return text
	}
	return string(runes[:snippetBudget]) + "..."
}

func containsID(records []models.StoryRecord, id string) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}
