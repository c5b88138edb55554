package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"service-fulfillment/internal/apperr"
	"service-fulfillment/internal/domain"
	testlog "service-fulfillment/internal/testutil"
)

type sweepFixture struct {
	svc     *Mockshipper
	runs    *MockrunSource
	carrier *MocktrackingSource
	rec     *testlog.Recorder
	now     time.Time
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &sweepFixture{
		svc:     NewMockshipper(ctrl),
		runs:    NewMockrunSource(ctrl),
		carrier: NewMocktrackingSource(ctrl),
		rec:     testlog.New(),
		now:     time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC),
	}
}

func (f *sweepFixture) reconciler(cfg Config) *Reconciler {
	r := NewReconciler(f.svc, f.runs, f.carrier, cfg, f.rec.Logger())
	r.now = func() time.Time { return f.now }
	return r
}

func TestSweep_ReplaysStaleRuns(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{ReplayAfter: 5 * time.Minute, BatchSize: 10})

	cutoff := f.now.Add(-5 * time.Minute)
	f.runs.EXPECT().ListUnfinished(gomock.Any(), cutoff, 10).Return([]domain.Run{
		{IdempotencyKey: "ship:ord-1", OrderID: "ord-1", CorrelationID: "corr-1"},
		{IdempotencyKey: "ship:ord-2", OrderID: "ord-2"},
	}, nil)
	f.svc.EXPECT().Ship(gomock.Any(), "ord-1", "corr-1").Return(&domain.Run{}, nil)
	f.svc.EXPECT().Ship(gomock.Any(), "ord-2", "").Return(&domain.Run{}, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)

	r.Sweep(context.Background())
}

func TestSweep_ReplayFailureDoesNotStopTheBatch(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).Return([]domain.Run{
		{IdempotencyKey: "ship:ord-1", OrderID: "ord-1"},
		{IdempotencyKey: "ship:ord-2", OrderID: "ord-2"},
	}, nil)
	f.svc.EXPECT().Ship(gomock.Any(), "ord-1", "").
		Return(nil, fmt.Errorf("carrier gateway: %w", apperr.CircuitOpen))
	f.svc.EXPECT().Ship(gomock.Any(), "ord-2", "").Return(&domain.Run{}, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)

	r.Sweep(context.Background())
	require.True(t, f.rec.Has("stale run replay failed"))
}

func TestSweep_ResendsPendingCallbacks(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return([]domain.Run{
		{IdempotencyKey: "ship:ord-1", OrderID: "ord-1", State: domain.RunOrderConfirmed},
		{IdempotencyKey: "ship:ord-2", OrderID: "ord-2", State: domain.RunFailed},
	}, nil)
	f.svc.EXPECT().ResendCallback(gomock.Any(), "ship:ord-1").Return(nil)
	f.svc.EXPECT().ResendCallback(gomock.Any(), "ship:ord-2").
		Return(fmt.Errorf("callback: %w", apperr.Transient))

	r.Sweep(context.Background())
	require.True(t, f.rec.Has("callback resend failed"))
}

func TestSweep_PollsTrackingWhenEnabled(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10, PollTracking: true, TrackWindow: 48 * time.Hour})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)

	since := f.now.Add(-48 * time.Hour)
	f.runs.EXPECT().ListTrackable(gomock.Any(), since, 10).Return([]domain.Run{
		{
			IdempotencyKey:  "ship:ord-1",
			OrderID:         "ord-1",
			State:           domain.RunCallbackSent,
			TrackingNumbers: []string{"TRK-1", "TRK-2"},
		},
	}, nil)
	f.carrier.EXPECT().LookupTracking(gomock.Any(), "TRK-1").Return("in_transit", nil)
	f.carrier.EXPECT().LookupTracking(gomock.Any(), "TRK-2").Return("delivered", nil)
	f.svc.EXPECT().RecordTracking(gomock.Any(), "ord-1", "TRK-1", "in_transit", f.now).Return(nil)
	f.svc.EXPECT().RecordTracking(gomock.Any(), "ord-1", "TRK-2", "delivered", f.now).Return(nil)

	r.Sweep(context.Background())
}

func TestSweep_PollSkipsNumbersTheCarrierDoesNotKnow(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10, PollTracking: true})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)
	f.runs.EXPECT().ListTrackable(gomock.Any(), gomock.Any(), 10).Return([]domain.Run{
		{OrderID: "ord-1", TrackingNumbers: []string{"TRK-lost", "TRK-2"}},
	}, nil)
	f.carrier.EXPECT().LookupTracking(gomock.Any(), "TRK-lost").
		Return("", fmt.Errorf("carrier gateway: LookupTracking: %w", apperr.NotFound))
	f.carrier.EXPECT().LookupTracking(gomock.Any(), "TRK-2").Return("delivered", nil)
	f.svc.EXPECT().RecordTracking(gomock.Any(), "ord-1", "TRK-2", "delivered", f.now).Return(nil)

	r.Sweep(context.Background())
}

func TestSweep_TrackingIsNotPolledByDefault(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).Return(nil, nil)
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)

	r.Sweep(context.Background())
}

func TestSweep_ListFailureSkipsOnlyThatPhase(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{BatchSize: 10})

	f.runs.EXPECT().ListUnfinished(gomock.Any(), gomock.Any(), 10).
		Return(nil, fmt.Errorf("list unfinished runs: %w", context.DeadlineExceeded))
	f.runs.EXPECT().ListCallbackPending(gomock.Any(), 10).Return(nil, nil)

	r.Sweep(context.Background())
	require.True(t, f.rec.Has("list unfinished runs failed"))
}

func TestRun_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{Schedule: "not a schedule"})

	err := r.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "schedule reconciler")
}

func TestRun_StopsWhenContextIsCanceled(t *testing.T) {
	t.Parallel()

	f := newSweepFixture(t)
	r := f.reconciler(Config{Schedule: "@every 1h"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
