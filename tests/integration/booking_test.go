//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/infra/readstore"
	"rentwheels/internal/infra/repository"
	"rentwheels/internal/infra/uow"
	"rentwheels/internal/jobs"
	"rentwheels/internal/pkg/clock"
	"rentwheels/internal/pkg/config"
	"rentwheels/internal/usecase/commands"
	"rentwheels/internal/usecase/queries"
	"rentwheels/internal/usecase/shared"
	"rentwheels/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

// scriptedGateway stands in for the payment provider so transactional
// behavior can be tested against a real database without network calls.
type scriptedGateway struct {
	mu      sync.Mutex
	calls   []commands.PaymentIntentInput
	nextErr error
	seq     int
}

func (g *scriptedGateway) CreateIntent(_ context.Context, in commands.PaymentIntentInput) (*commands.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.nextErr != nil {
		return nil, g.nextErr
	}
	g.calls = append(g.calls, in)
	g.seq++
	redirect := fmt.Sprintf("https://pay.example.com/l/%d", g.seq)
	return &commands.PaymentIntent{
		ID:          fmt.Sprintf("plink_it_%d", g.seq),
		RedirectURL: &redirect,
	}, nil
}

func (g *scriptedGateway) GetIntent(_ context.Context, id string) (*commands.PaymentIntent, error) {
	return &commands.PaymentIntent{ID: id}, nil
}

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type BookingIntegrationTestSuite struct {
	suite.Suite
	ctx     context.Context
	pool    *pgxpool.Pool
	clk     *clock.MockClock
	gateway *scriptedGateway
	unit    shared.UnitOfWork
	cmds    commands.BookingCommands
	qrs     queries.BookingQueries
}

func TestBookingIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(BookingIntegrationTestSuite))
}

func (s *BookingIntegrationTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.pool = setupTestDatabase(s.T())
	s.clk = clock.NewMockClock(builder.BaseTime)
	s.gateway = &scriptedGateway{}

	s.unit = uow.NewPostgresUoW(s.pool)
	s.cmds = commands.NewBookingCommands(
		s.unit,
		repository.NewBookingRepository(),
		readstore.NewVehicleReadStore(s.pool),
		s.gateway,
		booking.NewFactory(s.clk),
		s.clk,
		config.NewTestConfig().Payment,
	)
	s.qrs = queries.NewBookingQueries(readstore.NewBookingReadStore(s.pool))
}

func (s *BookingIntegrationTestSuite) seedVehicle(ownerID uuid.UUID, daily, hourly *int64) uuid.UUID {
	id := uuid.New()
	_, err := s.pool.Exec(s.ctx,
		`INSERT INTO vehicles (id, owner_id, make, model, daily_rate_cents, hourly_rate_cents)
		 VALUES ($1, $2, 'Toyota', 'Corolla', $3, $4)`,
		id, ownerID, daily, hourly)
	s.Require().NoError(err)
	return id
}

func (s *BookingIntegrationTestSuite) bookingRow(id uuid.UUID) (status, paymentStatus string, paymentRef *string, totalCents int64) {
	err := s.pool.QueryRow(s.ctx,
		`SELECT status, payment_status, payment_ref, total_cents FROM bookings WHERE id = $1`, id).
		Scan(&status, &paymentStatus, &paymentRef, &totalCents)
	s.Require().NoError(err)
	return
}

func (s *BookingIntegrationTestSuite) countBookings(vehicleID uuid.UUID) int64 {
	var n int64
	err := s.pool.QueryRow(s.ctx,
		`SELECT count(*) FROM bookings WHERE vehicle_id = $1`, vehicleID).Scan(&n)
	s.Require().NoError(err)
	return n
}

func int64Ptr(v int64) *int64 { return &v }

func (s *BookingIntegrationTestSuite) TestCreateBookingPersistsPricedBooking() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)
	userID := uuid.New()

	receipt, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    userID,
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().NoError(err)

	// Two full days at the daily rate.
	s.Equal(int64(300000), receipt.TotalCents)
	s.Equal("pending", receipt.Status)
	s.Equal("awaiting_payment", receipt.PaymentStatus)
	s.NotEmpty(receipt.PaymentRef)
	s.Require().NotNil(receipt.RedirectURL)

	status, paymentStatus, paymentRef, totalCents := s.bookingRow(receipt.BookingID)
	s.Equal("pending", status)
	s.Equal("awaiting_payment", paymentStatus)
	s.Require().NotNil(paymentRef)
	s.Equal(receipt.PaymentRef, *paymentRef)
	s.Equal(int64(300000), totalCents)

	s.Require().Equal(1, s.gateway.callCount())
	call := s.gateway.calls[0]
	s.Equal(int64(300000), call.AmountCents)
	s.Equal("INR", call.Currency)
	s.Equal(receipt.BookingID.String(), call.Metadata["booking_id"])
	s.Equal(userID.String(), call.Metadata["user_id"])
}

func (s *BookingIntegrationTestSuite) TestCreateBookingHourlyRateFallback() {
	vehicleID := s.seedVehicle(uuid.New(), nil, int64Ptr(2000))

	receipt, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(24 * time.Hour),
		EndTime:   builder.BaseTime.Add(29 * time.Hour),
	})
	s.Require().NoError(err)
	s.Equal(int64(10000), receipt.TotalCents)
}

func (s *BookingIntegrationTestSuite) TestOverlappingBookingRejected() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)

	_, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().NoError(err)

	_, err = s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(72 * time.Hour),
		EndTime:   builder.BaseTime.Add(120 * time.Hour),
	})
	s.Require().ErrorIs(err, commands.ErrBookingConflict)

	// Back-to-back slots share a boundary instant and do not conflict.
	_, err = s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(96 * time.Hour),
		EndTime:   builder.BaseTime.Add(144 * time.Hour),
	})
	s.Require().NoError(err)

	s.Equal(int64(2), s.countBookings(vehicleID))
}

func (s *BookingIntegrationTestSuite) TestGatewayFailureLeavesNoBooking() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)
	s.gateway.nextErr = errors.New("gateway unavailable")

	_, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().ErrorIs(err, commands.ErrPaymentGatewayFailed)

	// The insert rolled back with the transaction.
	s.Equal(int64(0), s.countBookings(vehicleID))

	// The slot is still bookable once the gateway recovers.
	s.gateway.nextErr = nil
	_, err = s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().NoError(err)
}

func (s *BookingIntegrationTestSuite) TestConcurrentCreationSingleWinner() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
				VehicleID: vehicleID,
				UserID:    uuid.New(),
				StartTime: builder.BaseTime.Add(48 * time.Hour),
				EndTime:   builder.BaseTime.Add(96 * time.Hour),
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, commands.ErrBookingConflict):
			conflicts++
		default:
			s.Failf("unexpected error", "got %v", err)
		}
	}

	s.Equal(1, successes)
	s.Equal(attempts-1, conflicts)
	s.Equal(int64(1), s.countBookings(vehicleID))
	// Losers are turned away before the gateway is contacted.
	s.Equal(1, s.gateway.callCount())
}

func (s *BookingIntegrationTestSuite) TestCancelBooking() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)
	userID := uuid.New()

	receipt, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    userID,
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().NoError(err)

	s.Run("non-owner gets not found", func() {
		err := s.cmds.CancelBooking(s.ctx, receipt.BookingID, uuid.New())
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})

	s.Run("window closed at exactly 24 hours before start", func() {
		s.clk.Set(builder.BaseTime.Add(24 * time.Hour))
		err := s.cmds.CancelBooking(s.ctx, receipt.BookingID, userID)
		s.Require().ErrorIs(err, commands.ErrCancellationWindow)
	})

	s.Run("succeeds before the window closes", func() {
		s.clk.Set(builder.BaseTime)
		err := s.cmds.CancelBooking(s.ctx, receipt.BookingID, userID)
		s.Require().NoError(err)

		status, _, _, _ := s.bookingRow(receipt.BookingID)
		s.Equal("cancelled", status)
	})

	s.Run("cancelled booking cannot be cancelled again", func() {
		err := s.cmds.CancelBooking(s.ctx, receipt.BookingID, userID)
		s.Require().ErrorIs(err, commands.ErrBookingFinalized)
	})

	s.Run("slot is released for new bookings", func() {
		_, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
			VehicleID: vehicleID,
			UserID:    uuid.New(),
			StartTime: builder.BaseTime.Add(48 * time.Hour),
			EndTime:   builder.BaseTime.Add(96 * time.Hour),
		})
		s.Require().NoError(err)
	})
}

func (s *BookingIntegrationTestSuite) TestReadSideViews() {
	ownerID := uuid.New()
	vehicleID := s.seedVehicle(ownerID, int64Ptr(150000), nil)
	userID := uuid.New()

	receipt, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    userID,
		StartTime: builder.BaseTime.Add(48 * time.Hour),
		EndTime:   builder.BaseTime.Add(96 * time.Hour),
	})
	s.Require().NoError(err)

	s.Run("owner of the booking can read it", func() {
		view, err := s.qrs.GetByID(s.ctx, userID, receipt.BookingID)
		s.Require().NoError(err)
		s.Equal("Toyota", view.VehicleMake)
		s.Equal("Corolla", view.VehicleModel)
		s.Equal(int64(300000), view.TotalCents)
		s.Require().NotNil(view.PaymentRef)
		s.Equal(receipt.PaymentRef, *view.PaymentRef)
	})

	s.Run("other users get not found", func() {
		_, err := s.qrs.GetByID(s.ctx, uuid.New(), receipt.BookingID)
		s.Require().ErrorIs(err, queries.ErrBookingNotFound)
	})

	s.Run("user listing contains the booking", func() {
		items, err := s.qrs.ListByUser(s.ctx, userID, 0)
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.Equal(receipt.BookingID, items[0].ID)
	})

	s.Run("fleet owner listing shows the renter", func() {
		items, err := s.qrs.ListByOwner(s.ctx, ownerID, 0)
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.Equal(userID, items[0].UserID)
	})

	s.Run("unrelated owner sees nothing", func() {
		items, err := s.qrs.ListByOwner(s.ctx, uuid.New(), 0)
		s.Require().NoError(err)
		s.Empty(items)
	})
}

func (s *BookingIntegrationTestSuite) TestReconcilerSweepsStuckPending() {
	vehicleID := s.seedVehicle(uuid.New(), int64Ptr(150000), nil)

	// A row left (pending, pending) by a crash between insert and intent
	// recording. Inserted directly because the command flow cannot produce it.
	stuckID := uuid.New()
	_, err := s.pool.Exec(s.ctx,
		`INSERT INTO bookings (id, vehicle_id, user_id, start_time, end_time, total_cents, status, payment_status, created_at)
		 VALUES ($1, $2, $3, $4, $5, 300000, 'pending', 'pending', $6)`,
		stuckID, vehicleID, uuid.New(),
		builder.BaseTime.Add(48*time.Hour), builder.BaseTime.Add(96*time.Hour),
		builder.BaseTime.Add(-time.Hour))
	s.Require().NoError(err)

	// A healthy awaiting_payment row on another slot must not be touched.
	receipt, err := s.cmds.CreateBooking(s.ctx, commands.CreateBookingInput{
		VehicleID: vehicleID,
		UserID:    uuid.New(),
		StartTime: builder.BaseTime.Add(120 * time.Hour),
		EndTime:   builder.BaseTime.Add(144 * time.Hour),
	})
	s.Require().NoError(err)

	reconciler := jobs.NewReconciler(s.unit, s.clk, 15*time.Minute)
	reconciler.Run(s.ctx)

	status, _, _, _ := s.bookingRow(stuckID)
	s.Equal("cancelled", status)

	status, _, _, _ = s.bookingRow(receipt.BookingID)
	s.Equal("pending", status)
}
