package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
	"mixerboard/internal/engine"
	"mixerboard/internal/infrastructure/i18n"
	"mixerboard/internal/infrastructure/images"
	"mixerboard/internal/ports/output"
)

// memStore is an in-memory EventStore for service tests. Transact is not
// concurrent-safe; these tests are single-writer like local mode.
type memStore struct {
	col     entities.Collection
	failAll bool
}

func newMemStore() *memStore {
	return &memStore{col: entities.Collection{}}
}

func (m *memStore) ReadAll(ctx context.Context) (entities.Collection, error) {
	if m.failAll {
		return nil, domain.NewStoreError("read all", errors.New("store down"))
	}
	return m.col.Clone(), nil
}

func (m *memStore) Transact(ctx context.Context, mutator output.Mutator) (entities.Collection, error) {
	if m.failAll {
		return nil, domain.NewStoreError("transact", errors.New("store down"))
	}
	next, err := mutator(m.col.Clone())
	if err != nil {
		return nil, err
	}
	m.col = next
	return next, nil
}

func newTestService(t *testing.T, store output.EventStore, policy engine.Policy, imgs output.ImageStore) *BoardService {
	t.Helper()
	eng := engine.New(policy, engine.WithClock(func() time.Time {
		return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	}))
	return NewBoardService(store, eng, imgs, i18n.NewTranslator("en"), "en")
}

func createInput() engine.CreateInput {
	return engine.CreateInput{
		Title:    "Wind ensemble meetup",
		Start:    time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC),
		Deadline: time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC),
		Creator:  engine.PersonInput{Name: "山田 太郎", University: "京大", Grade: "2", Part: "Fl"},
	}
}

func TestBoardService_CreateJoinLeaveDelete(t *testing.T) {
	store := newMemStore()
	s := newTestService(t, store, engine.Policy{}, nil)
	ctx := context.Background()

	ev, msg, err := s.CreateEvent(ctx, createInput(), "", "dev_a")
	require.NoError(t, err)
	assert.Equal(t, "Event created!", msg)

	p, msg, err := s.JoinEvent(ctx, ev.ID, engine.PersonInput{Name: "佐藤 花子", University: "慶應", Grade: "3", Part: "Ob"}, "dev_b")
	require.NoError(t, err)
	assert.Contains(t, msg, "You're in")

	list, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Participants, 2)

	msg, err = s.LeaveEvent(ctx, ev.ID, p.ID, "dev_b")
	require.NoError(t, err)
	assert.Equal(t, "You have left the event.", msg)

	msg, err = s.DeleteEvent(ctx, ev.ID, "dev_a")
	require.NoError(t, err)
	assert.Equal(t, "The event has been deleted.", msg)

	list, err = s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBoardService_RejectionMessages(t *testing.T) {
	store := newMemStore()
	s := newTestService(t, store, engine.Policy{}, nil)
	ctx := context.Background()

	ev, _, err := s.CreateEvent(ctx, createInput(), "", "dev_a")
	require.NoError(t, err)

	// Delete by the wrong device: localized NotCreator message, no mutation.
	msg, err := s.DeleteEvent(ctx, ev.ID, "dev_intruder")
	require.Error(t, err)
	assert.True(t, domain.IsRejection(err, domain.ReasonNotCreator))
	assert.Equal(t, "Only the creator (on this device) can delete the event.", msg)

	list, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBoardService_StoreFailureMessage(t *testing.T) {
	store := newMemStore()
	store.failAll = true
	s := newTestService(t, store, engine.Policy{}, nil)

	_, msg, err := s.CreateEvent(context.Background(), createInput(), "", "dev_a")
	require.Error(t, err)
	assert.True(t, domain.IsStoreError(err))
	assert.Equal(t, "Saving failed. Please try again in a moment.", msg)
}

func TestBoardService_QuotaRejectionCleansUpImage(t *testing.T) {
	dir := t.TempDir()
	imgs, err := images.NewLocalImageStore(filepath.Join(dir, "store"))
	require.NoError(t, err)

	imagePath := filepath.Join(dir, "poster.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))

	store := newMemStore()
	s := newTestService(t, store, engine.Policy{PerDeviceCreateQuota: 1, AllowImages: true}, imgs)
	ctx := context.Background()

	_, _, err = s.CreateEvent(ctx, createInput(), "", "dev_a")
	require.NoError(t, err)

	// Second create hits the quota; the pre-uploaded image must be removed.
	_, _, err = s.CreateEvent(ctx, createInput(), imagePath, "dev_a")
	require.Error(t, err)
	assert.True(t, domain.IsRejection(err, domain.ReasonCreateQuotaExceeded))

	entries, err := os.ReadDir(filepath.Join(dir, "store"))
	require.NoError(t, err)
	assert.Empty(t, entries, "orphaned image left behind after quota rejection")
}

func TestBoardService_DeleteRemovesAttachedImage(t *testing.T) {
	dir := t.TempDir()
	imgs, err := images.NewLocalImageStore(filepath.Join(dir, "store"))
	require.NoError(t, err)

	imagePath := filepath.Join(dir, "poster.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("png"), 0o644))

	store := newMemStore()
	s := newTestService(t, store, engine.Policy{AllowImages: true}, imgs)
	ctx := context.Background()

	ev, _, err := s.CreateEvent(ctx, createInput(), imagePath, "dev_a")
	require.NoError(t, err)
	require.NotEmpty(t, ev.ImageRef)

	_, err = s.DeleteEvent(ctx, ev.ID, "dev_a")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "store"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBoardService_WatchUnavailableOnLocalStore(t *testing.T) {
	s := newTestService(t, newMemStore(), engine.Policy{}, nil)

	_, err := s.Watch(context.Background(), func([]entities.Event) {})
	assert.Error(t, err)
}
