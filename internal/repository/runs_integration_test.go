//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"service-fulfillment/internal/domain"
	"service-fulfillment/internal/repository"
)

type RunRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.RunRepo
}

func (s *RunRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewRunRepo(tcPool)
}

func (s *RunRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE fulfillment_runs`)
	s.Require().NoError(err)
}

func (s *RunRepositorySuite) TestGetOrCreate() {
	ctx := context.Background()

	run, created, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "corr-1")
	s.Require().NoError(err)
	s.True(created)
	s.Require().NotNil(run)
	s.Equal(domain.RunReceived, run.State)
	s.Equal("ORD-1", run.OrderID)
	s.Equal("corr-1", run.CorrelationID)
	s.False(run.CallbackDelivered)
	s.Empty(run.Events)

	again, created, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "corr-2")
	s.Require().NoError(err)
	s.False(created, "second call must reuse the run")
	s.Equal("corr-1", again.CorrelationID, "original correlation id wins")
}

func (s *RunRepositorySuite) TestGetNotFound() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.Require().NoError(err)
	s.Require().Nil(got)
}

func (s *RunRepositorySuite) TestUpdateState_Guarded() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	ok, err := s.repo.UpdateState(ctx, "k1", domain.RunReceived, domain.RunOrderFetched, "")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.UpdateState(ctx, "k1", domain.RunReceived, domain.RunOrderFetched, "")
	s.Require().NoError(err)
	s.False(ok, "stale from-state must not match")

	got, err := s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.Equal(domain.RunOrderFetched, got.State)
}

func (s *RunRepositorySuite) TestUpdateState_FailReason() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	ok, err := s.repo.UpdateState(ctx, "k1", domain.RunReceived, domain.RunFailed, "Timeout")
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.Equal(domain.RunFailed, got.State)
	s.Equal("Timeout", got.FailReason)

	ok, err = s.repo.UpdateState(ctx, "k1", domain.RunFailed, domain.RunReceived, "ignored")
	s.Require().NoError(err)
	s.True(ok)

	got, err = s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.Empty(got.FailReason, "reason cleared on replay")
}

func (s *RunRepositorySuite) TestTrackingAndCallback() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.SetTracking(ctx, "k1", []string{"TRK-1"}))
	s.Require().NoError(s.repo.MarkCallback(ctx, "k1", false, "callback: 503"))

	got, err := s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.Equal([]string{"TRK-1"}, got.TrackingNumbers)
	s.False(got.CallbackDelivered)
	s.Equal("callback: 503", got.CallbackLastError)

	s.Require().NoError(s.repo.MarkCallback(ctx, "k1", true, ""))

	got, err = s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.True(got.CallbackDelivered)
	s.Empty(got.CallbackLastError)
}

func (s *RunRepositorySuite) TestAppendEvent() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	ev1 := domain.RunEvent{At: time.Now().UTC().Truncate(time.Millisecond), Step: "order_fetched"}
	ev2 := domain.RunEvent{At: time.Now().UTC().Truncate(time.Millisecond), Step: "shipment_created", Detail: "TRK-1"}
	s.Require().NoError(s.repo.AppendEvent(ctx, "k1", ev1))
	s.Require().NoError(s.repo.AppendEvent(ctx, "k1", ev2))

	got, err := s.repo.Get(ctx, "k1")
	s.Require().NoError(err)
	s.Require().Len(got.Events, 2)
	s.Equal("order_fetched", got.Events[0].Step)
	s.Equal("shipment_created", got.Events[1].Step)
	s.Equal("TRK-1", got.Events[1].Detail)
}

func (s *RunRepositorySuite) TestListCallbackPending() {
	ctx := context.Background()

	for _, key := range []string{"k1", "k2", "k3"} {
		_, _, err := s.repo.GetOrCreate(ctx, key, "ORD-"+key, "")
		s.Require().NoError(err)
	}

	advance := func(key string, to ...domain.RunState) {
		from := domain.RunReceived
		for _, state := range to {
			ok, err := s.repo.UpdateState(ctx, key, from, state, "PrintTransportError")
			s.Require().NoError(err)
			s.Require().True(ok)
			from = state
		}
	}

	advance("k1", domain.RunOrderFetched, domain.RunShipmentCreated,
		domain.RunLabelsPrinted, domain.RunOrderConfirmed)
	advance("k2", domain.RunFailed)
	// k3 still received, not settled

	pending, err := s.repo.ListCallbackPending(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)

	keys := []string{pending[0].IdempotencyKey, pending[1].IdempotencyKey}
	s.ElementsMatch([]string{"k1", "k2"}, keys)

	s.Require().NoError(s.repo.MarkCallback(ctx, "k1", true, ""))

	pending, err = s.repo.ListCallbackPending(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("k2", pending[0].IdempotencyKey)
}

func (s *RunRepositorySuite) TestListUnfinished() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)
	_, _, err = s.repo.GetOrCreate(ctx, "k2", "ORD-2", "")
	s.Require().NoError(err)

	ok, err := s.repo.UpdateState(ctx, "k2", domain.RunReceived, domain.RunFailed, "RejectedRequest")
	s.Require().NoError(err)
	s.True(ok)

	stale, err := s.repo.ListUnfinished(ctx, time.Now().Add(time.Minute), 10)
	s.Require().NoError(err)
	s.Require().Len(stale, 1, "failed run is settled, received run is not")
	s.Equal("k1", stale[0].IdempotencyKey)

	fresh, err := s.repo.ListUnfinished(ctx, time.Now().Add(-time.Minute), 10)
	s.Require().NoError(err)
	s.Empty(fresh, "nothing is older than the cutoff yet")
}

func (s *RunRepositorySuite) TestListMissingTracking() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	ok, err := s.repo.UpdateState(ctx, "k1", domain.RunReceived, domain.RunOrderFetched, "")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.repo.UpdateState(ctx, "k1", domain.RunOrderFetched, domain.RunShipmentCreated, "")
	s.Require().NoError(err)
	s.True(ok)

	missing, err := s.repo.ListMissingTracking(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(missing, 1)
	s.Equal("k1", missing[0].IdempotencyKey)

	s.Require().NoError(s.repo.SetTracking(ctx, "k1", []string{"TRK-1"}))

	missing, err = s.repo.ListMissingTracking(ctx, 10)
	s.Require().NoError(err)
	s.Empty(missing)
}

func (s *RunRepositorySuite) TestListTrackable() {
	ctx := context.Background()

	_, _, err := s.repo.GetOrCreate(ctx, "k1", "ORD-1", "")
	s.Require().NoError(err)

	for _, st := range []struct{ from, to domain.RunState }{
		{domain.RunReceived, domain.RunOrderFetched},
		{domain.RunOrderFetched, domain.RunShipmentCreated},
		{domain.RunShipmentCreated, domain.RunLabelsPrinted},
		{domain.RunLabelsPrinted, domain.RunOrderConfirmed},
	} {
		ok, uerr := s.repo.UpdateState(ctx, "k1", st.from, st.to, "")
		s.Require().NoError(uerr)
		s.True(ok)
	}

	since := time.Now().Add(-time.Hour)

	trackable, err := s.repo.ListTrackable(ctx, since, 10)
	s.Require().NoError(err)
	s.Empty(trackable, "no tracking numbers recorded yet")

	s.Require().NoError(s.repo.SetTracking(ctx, "k1", []string{"TRK-1"}))

	trackable, err = s.repo.ListTrackable(ctx, since, 10)
	s.Require().NoError(err)
	s.Require().Len(trackable, 1)
	s.Equal("k1", trackable[0].IdempotencyKey)

	trackable, err = s.repo.ListTrackable(ctx, time.Now().Add(time.Hour), 10)
	s.Require().NoError(err)
	s.Empty(trackable, "runs started before the window are not polled")
}

func (s *RunRepositorySuite) TestGet_ContextCanceled_ReturnsError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.repo.Get(ctx, "k1")
	s.Nil(got)
	s.Error(err)
}

func TestRunRepositorySuite(t *testing.T) {
	suite.Run(t, new(RunRepositorySuite))
}
