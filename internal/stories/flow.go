package stories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"storyvoice/internal/models"
)

// RequestFlow orchestrates one story-generation request: local
// validation, the remote call, and handing the result to the
// collection. At most one request per flow instance is in flight.
type RequestFlow struct {
	api        API
	collection *Collection
	session    SessionReader
	logger     *zap.Logger
	inFlight   atomic.Bool
}

// NewRequestFlow creates a flow bound to the story API and collection.
func NewRequestFlow(api API, collection *Collection, session SessionReader, logger *zap.Logger) *RequestFlow {
	return &RequestFlow{
		api:        api,
		collection: collection,
		session:    session,
		logger:     logger.Named("StoryRequestFlow"),
	}
}

// Submit validates the draft and asks the generator for a narrative.
// Returns the generated text. When the response carries a record id and
// the session is still the one that submitted, the record is inserted
// into the collection; without an id the collection reconciles on the
// next refresh.
func (f *RequestFlow) Submit(ctx context.Context, draft models.Draft, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("sign in to generate a story: %w", models.ErrNotAuthenticated)
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return "", models.ErrGenerationInProgress
	}
	defer f.inFlight.Store(false)

	// Validation and the filtered payload derive from the same draft
	// snapshot; CleanCharacters never removes a validated entry beyond
	// trimming whitespace.
	requestID := uuid.NewString()
	f.logger.Info("Submitting generation request",
		zap.String("requestID", requestID),
		zap.String("userID", userID),
		zap.String("genre", string(draft.Genre)),
	)

	resp, err := f.api.Generate(ctx, GenerateRequest{
		UserID:     userID,
		Genre:      string(draft.Genre),
		Characters: draft.CleanCharacters(),
		Plot:       draft.Plot,
	})
	if err != nil {
		f.logger.Warn("Generation failed", zap.String("requestID", requestID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	if f.session.UserID() != userID {
		f.logger.Info("Discarding generation result, session changed",
			zap.String("requestID", requestID), zap.String("userID", userID))
		return "", models.ErrSessionChanged
	}

	if resp.ID != "" {
		f.collection.InsertFresh(models.StoryRecord{
			ID:            resp.ID,
			OwnerID:       userID,
			Genre:         draft.Genre,
			Characters:    draft.CleanCharacters(),
			Plot:          draft.Plot,
			NarrativeText: resp.Story,
		})
	}

	f.logger.Info("Generation completed", zap.String("requestID", requestID))
	return resp.Story, nil
}

// InFlight reports whether a generation request is currently running.
func (f *RequestFlow) InFlight() bool {
	return f.inFlight.Load()
}
