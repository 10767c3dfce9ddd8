package seed

import (
	"context"
	"testing"

	"smart-reminder/internal/model"
	"smart-reminder/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEventsAreValid(t *testing.T) {
	events := DefaultEvents()
	require.NotEmpty(t, events)

	ids := make(map[string]bool)
	for _, e := range events {
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true

		_, err := e.Day()
		assert.NoError(t, err, e.ID)
		assert.NotEmpty(t, e.Title.Data().En, e.ID)
		assert.NotEmpty(t, e.Title.Data().Ar, e.ID)
	}
	assert.Equal(t, "New Year", events[0].Title.Data().En)
	assert.Equal(t, "Year End Sales", events[len(events)-1].Title.Data().En)
}

func TestEnsureEventsSeedsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	got, err := EnsureEvents(ctx, st)
	require.NoError(t, err)
	assert.Len(t, got, len(DefaultEvents()))

	require.NoError(t, st.DeleteEvent(ctx, "ramadan"))
	got, err = EnsureEvents(ctx, st)
	require.NoError(t, err)
	assert.Len(t, got, len(DefaultEvents())-1)

	custom := store.NewMemory()
	require.NoError(t, custom.SaveEvent(ctx, model.NewEvent("own", model.Localized{En: "Own"}, "2026-06-01", model.EventCustom, model.Localized{}, model.PriorityLow)))
	got, err = EnsureEvents(ctx, custom)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
