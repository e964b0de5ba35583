package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"alertcast/internal/features/donations/domain"
	"alertcast/internal/features/donations/ports"
	events "alertcast/internal/features/events/domain"
	hubports "alertcast/internal/features/hub/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct{ mock.Mock }

func (m *mockRepository) SavePending(ctx context.Context, d *domain.Donation) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockRepository) GetPending(ctx context.Context, orderID string) (*domain.Donation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *mockRepository) DeletePending(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *mockRepository) AppendHistory(ctx context.Context, d *domain.Donation) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockRepository) History(ctx context.Context, limit int64) ([]domain.Donation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

// recordingHub captures each Publish call's batch.
type recordingHub struct {
	mu      sync.Mutex
	batches [][]events.Envelope
}

func (h *recordingHub) Attach(conn hubports.Conn) string { return "" }

func (h *recordingHub) Detach(id string) {}

func (h *recordingHub) ClientCount() int { return 0 }

func (h *recordingHub) Publish(evs ...events.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches, evs)
}

func (h *recordingHub) lastBatch() []events.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.batches) == 0 {
		return nil
	}
	return h.batches[len(h.batches)-1]
}

func TestDonationService_Create(t *testing.T) {
	t.Run("SavesPending", func(t *testing.T) {
		repo := &mockRepository{}
		hub := &recordingHub{}
		svc := NewDonationService(repo, hub)

		repo.On("SavePending", mock.Anything, mock.Anything).Return(nil).Once()

		d, err := svc.Create(context.Background(), ports.CreateDonationInput{
			DonorName:     "Tia",
			Amount:        5000,
			Message:       "hello",
			PaymentMethod: "plisio",
			MediaURL:      "https://cdn.example/a.mp4",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, d.Status)
		assert.Equal(t, "plisio", d.PaymentMethod)
		assert.Equal(t, "https://cdn.example/a.mp4", d.MediaURL)
		assert.Empty(t, hub.batches, "nothing broadcast before payment confirms")
		repo.AssertExpectations(t)
	})

	t.Run("RejectsInvalidAmount", func(t *testing.T) {
		repo := &mockRepository{}
		svc := NewDonationService(repo, &recordingHub{})

		_, err := svc.Create(context.Background(), ports.CreateDonationInput{Amount: -5})

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		repo.AssertNotCalled(t, "SavePending")
	})
}

func TestDonationService_ConfirmPayment(t *testing.T) {
	pending := func() *domain.Donation {
		d, _ := domain.NewDonation("Tia", "hello", 5000)
		return d
	}

	t.Run("PaidDispatchesBatch", func(t *testing.T) {
		repo := &mockRepository{}
		hub := &recordingHub{}
		svc := NewDonationService(repo, hub)

		d := pending()
		d.MediaURL = "https://cdn.example/a.mp4"
		repo.On("GetPending", mock.Anything, d.ID).Return(d, nil).Once()
		repo.On("DeletePending", mock.Anything, d.ID).Return(nil).Once()
		repo.On("AppendHistory", mock.Anything, d).Return(nil).Once()

		got, err := svc.ConfirmPayment(context.Background(), d.ID, true)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, got.Status)

		batch := hub.lastBatch()
		require.Len(t, batch, 4, "alert, media, history and status travel together")
		assert.Equal(t, events.EventDonation, batch[0].Type)
		assert.Equal(t, events.EventMedia, batch[1].Type)
		assert.Equal(t, events.EventHistory, batch[2].Type)
		assert.Equal(t, events.EventPaymentStatus, batch[3].Type)
		assert.Equal(t, batch[0].ID, batch[1].ID)
		repo.AssertExpectations(t)
	})

	t.Run("PaidWithoutMediaSkipsMediaEvent", func(t *testing.T) {
		repo := &mockRepository{}
		hub := &recordingHub{}
		svc := NewDonationService(repo, hub)

		d := pending()
		repo.On("GetPending", mock.Anything, d.ID).Return(d, nil).Once()
		repo.On("DeletePending", mock.Anything, d.ID).Return(nil).Once()
		repo.On("AppendHistory", mock.Anything, d).Return(nil).Once()

		_, err := svc.ConfirmPayment(context.Background(), d.ID, true)

		require.NoError(t, err)
		require.Len(t, hub.lastBatch(), 3)
		assert.Equal(t, events.EventDonation, hub.lastBatch()[0].Type)
	})

	t.Run("FailedPublishesStatusOnly", func(t *testing.T) {
		repo := &mockRepository{}
		hub := &recordingHub{}
		svc := NewDonationService(repo, hub)

		d := pending()
		repo.On("GetPending", mock.Anything, d.ID).Return(d, nil).Once()
		repo.On("DeletePending", mock.Anything, d.ID).Return(nil).Once()

		got, err := svc.ConfirmPayment(context.Background(), d.ID, false)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, got.Status)
		batch := hub.lastBatch()
		require.Len(t, batch, 1)
		assert.Equal(t, events.EventPaymentStatus, batch[0].Type)
		assert.Equal(t, "FAILED", batch[0].Status)
		repo.AssertNotCalled(t, "AppendHistory")
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		repo := &mockRepository{}
		svc := NewDonationService(repo, &recordingHub{})

		repo.On("GetPending", mock.Anything, "missing").Return(nil, domain.ErrNotFound).Once()

		_, err := svc.ConfirmPayment(context.Background(), "missing", true)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDonationService_Broadcasts(t *testing.T) {
	t.Run("ClearQueue", func(t *testing.T) {
		hub := &recordingHub{}
		svc := NewDonationService(&mockRepository{}, hub)

		svc.ClearQueue()

		require.Len(t, hub.lastBatch(), 1)
		assert.Equal(t, events.EventClearQueue, hub.lastBatch()[0].Type)
	})

	t.Run("SetVisibility", func(t *testing.T) {
		hub := &recordingHub{}
		svc := NewDonationService(&mockRepository{}, hub)

		svc.SetVisibility("d1", false)

		ev := hub.lastBatch()[0]
		assert.Equal(t, events.EventVisibility, ev.Type)
		assert.Equal(t, "d1", ev.ID)
		require.NotNil(t, ev.Visible)
		assert.False(t, *ev.Visible)
	})

	t.Run("BroadcastTimer", func(t *testing.T) {
		hub := &recordingHub{}
		svc := NewDonationService(&mockRepository{}, hub)

		target := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
		svc.BroadcastTimer(target)

		ev := hub.lastBatch()[0]
		assert.Equal(t, events.EventTime, ev.Type)
		assert.Equal(t, "2026-03-01T18:00:00Z", ev.TargetTime)
	})
}

func TestDonationService_History(t *testing.T) {
	repo := &mockRepository{}
	svc := NewDonationService(repo, &recordingHub{})

	want := []domain.Donation{{ID: "a"}, {ID: "b"}}
	repo.On("History", mock.Anything, int64(10)).Return(want, nil).Once()

	got, err := svc.History(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}
