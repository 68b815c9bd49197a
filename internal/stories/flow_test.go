package stories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyvoice/internal/models"
	"storyvoice/internal/stories"
	"storyvoice/internal/stories/mocks"
)

func newFlow(sessionID string) (*stories.RequestFlow, *stories.Collection, *mocks.MockAPI, *stubSession) {
	api := new(mocks.MockAPI)
	sess := &stubSession{id: sessionID}
	collection := stories.NewCollection(api, sess, zap.NewNop())
	flow := stories.NewRequestFlow(api, collection, sess, zap.NewNop())
	return flow, collection, api, sess
}

func validDraft() models.Draft {
	return models.Draft{
		Genre:      models.GenreFantasy,
		Characters: []string{"Mira"},
		Plot:       "A quest for light",
	}
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	flow, _, api, _ := newFlow("")

	_, err := flow.Submit(context.Background(), validDraft(), "")
	require.ErrorIs(t, err, models.ErrNotAuthenticated)
	api.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestSubmitValidatesDraftBeforeAnyNetworkCall(t *testing.T) {
	cases := []struct {
		name  string
		draft models.Draft
	}{
		{"blank character", models.Draft{Genre: models.GenreFantasy, Characters: []string{"", "Bob"}, Plot: "A plot"}},
		{"blank plot", models.Draft{Genre: models.GenreFantasy, Characters: []string{"Bob"}, Plot: "   "}},
		{"no characters", models.Draft{Genre: models.GenreFantasy, Plot: "A plot"}},
		{"unknown genre", models.Draft{Genre: "western", Characters: []string{"Bob"}, Plot: "A plot"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow, _, api, _ := newFlow("u1")

			_, err := flow.Submit(context.Background(), tc.draft, "u1")
			require.ErrorIs(t, err, models.ErrValidation)
			api.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitInsertsGeneratedRecord(t *testing.T) {
	flow, collection, api, _ := newFlow("u1")

	api.On("Generate", mock.Anything, mock.MatchedBy(func(req stories.GenerateRequest) bool {
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, "fantasy", req.Genre)
		assert.Equal(t, []string{"Mira"}, req.Characters)
		assert.Equal(t, "A quest for light", req.Plot)
		return true
	})).Return(&stories.GenerateResponse{Story: "Mira ventured...", ID: "s9"}, nil).Once()

	story, err := flow.Submit(context.Background(), validDraft(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mira ventured...", story)

	got := collection.Records()
	require.Len(t, got, 1)
	assert.Equal(t, "s9", got[0].ID)
	assert.Equal(t, "u1", got[0].OwnerID)
	assert.Equal(t, "Mira ventured...", got[0].NarrativeText)
	assert.Equal(t, models.GenreFantasy, got[0].Genre)
}

func TestSubmitWithoutRecordIDLeavesCollectionUntouched(t *testing.T) {
	flow, collection, api, _ := newFlow("u1")

	api.On("Generate", mock.Anything, mock.Anything).
		Return(&stories.GenerateResponse{Story: "Mira ventured..."}, nil).Once()

	story, err := flow.Submit(context.Background(), validDraft(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mira ventured...", story)

	// The collection reconciles on the next refresh instead.
	assert.Empty(t, collection.Records())
}

func TestSubmitFiltersBlankCharactersFromPayload(t *testing.T) {
	flow, _, api, _ := newFlow("u1")

	draft := validDraft()
	draft.Characters = []string{"  Mira  ", "Bob"}

	api.On("Generate", mock.Anything, mock.MatchedBy(func(req stories.GenerateRequest) bool {
		return assert.Equal(t, []string{"Mira", "Bob"}, req.Characters)
	})).Return(&stories.GenerateResponse{Story: "ok"}, nil).Once()

	_, err := flow.Submit(context.Background(), draft, "u1")
	require.NoError(t, err)
}

func TestSubmitSurfacesGenerationFailure(t *testing.T) {
	flow, collection, api, _ := newFlow("u1")

	api.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.New("model overloaded")).Once()

	_, err := flow.Submit(context.Background(), validDraft(), "u1")
	require.ErrorIs(t, err, models.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Empty(t, collection.Records())
}

func TestSubmitDiscardsResultWhenSessionChanged(t *testing.T) {
	flow, collection, api, sess := newFlow("u1")

	// Logout lands while the generation request is in flight.
	api.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { sess.set("") }).
		Return(&stories.GenerateResponse{Story: "too late", ID: "s9"}, nil).Once()

	_, err := flow.Submit(context.Background(), validDraft(), "u1")
	require.ErrorIs(t, err, models.ErrSessionChanged)
	assert.Empty(t, collection.Records(), "a stale result must not enter the collection")
}

func TestSubmitAllowsOnlyOneInFlightRequest(t *testing.T) {
	flow, _, api, _ := newFlow("u1")

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&stories.GenerateResponse{Story: "done"}, nil).Once()

	errCh := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), validDraft(), "u1")
		errCh <- err
	}()

	<-started
	assert.True(t, flow.InFlight())

	_, err := flow.Submit(context.Background(), validDraft(), "u1")
	require.ErrorIs(t, err, models.ErrGenerationInProgress)

	close(release)
	require.NoError(t, <-errCh)

	require.Eventually(t, func() bool { return !flow.InFlight() },
		time.Second, 5*time.Millisecond)
}
