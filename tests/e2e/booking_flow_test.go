//go:build e2e

package e2e

import (
	"net/http"
	"testing"
	"time"

	"rentwheels/internal/domain/auth"
	resdto "rentwheels/internal/handler/dto/response"
	"rentwheels/internal/pkg/config"
	"rentwheels/tests/common/builder"
	"rentwheels/tests/common/dbtest"
	"rentwheels/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BookingFlowE2ETestSuite struct {
	suite.Suite
	app *testApp
}

func TestBookingFlowE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(BookingFlowE2ETestSuite))
}

func (s *BookingFlowE2ETestSuite) SetupTest() {
	s.app = setupTestApp(s.T(), nil)
}

func (s *BookingFlowE2ETestSuite) token(userID uuid.UUID, role auth.Role) string {
	token, err := s.app.JWT.GenerateToken(userID, role)
	s.Require().NoError(err)
	return token
}

func (s *BookingFlowE2ETestSuite) createBody(vehicleID uuid.UUID, start, end time.Time) map[string]any {
	return map[string]any{
		"vehicle_id": vehicleID.String(),
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
}

func (s *BookingFlowE2ETestSuite) TestBookingLifecycle() {
	daily := int64(150000)
	ownerID := uuid.New()
	vehicleID := dbtest.CreateTestVehicle(s.T(), s.app.Pool, ownerID, "Toyota", "Corolla", &daily, nil)

	renterID := uuid.New()
	renterToken := s.token(renterID, auth.RoleRenter)

	start := builder.BaseTime.Add(48 * time.Hour)
	end := builder.BaseTime.Add(96 * time.Hour)

	var receipt resdto.BookingReceiptResponse
	s.Run("booking a free slot returns a receipt", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
			s.createBody(vehicleID, start, end), renterToken)

		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &receipt)
		s.Equal(int64(300000), receipt.TotalCents)
		s.Equal("pending", receipt.Status)
		s.Equal("awaiting_payment", receipt.PaymentStatus)
		s.NotEmpty(receipt.PaymentRef)
		s.Require().NotNil(receipt.RedirectURL)
	})

	s.Run("the renter can read the booking back", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/bookings/"+receipt.BookingID.String(), nil, renterToken)

		s.Require().Equal(http.StatusOK, rec.Code)
		var view resdto.BookingResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &view)
		s.Equal("Toyota", view.VehicleMake)
		s.Equal(int64(300000), view.TotalCents)
	})

	s.Run("another renter cannot read it", func() {
		otherToken := s.token(uuid.New(), auth.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/bookings/"+receipt.BookingID.String(), nil, otherToken)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("the slot is no longer available", func() {
		otherToken := s.token(uuid.New(), auth.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
			s.createBody(vehicleID, start.Add(24*time.Hour), end.Add(24*time.Hour)), otherToken)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("the renter listing contains the booking", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/bookings", nil, renterToken)

		s.Require().Equal(http.StatusOK, rec.Code)
		var items []*resdto.BookingListResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &items)
		s.Require().Len(items, 1)
		s.Equal(receipt.BookingID, items[0].ID)
	})

	s.Run("the fleet owner sees the renter", func() {
		ownerToken := s.token(ownerID, auth.RoleOwner)
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/owners/bookings", nil, ownerToken)

		s.Require().Equal(http.StatusOK, rec.Code)
		var items []*resdto.OwnerBookingResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &items)
		s.Require().Len(items, 1)
		s.Equal(renterID, items[0].UserID)
	})

	s.Run("renters cannot use the owner listing", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/owners/bookings", nil, renterToken)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("cancelling inside the window succeeds", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings/"+receipt.BookingID.String()+"/cancel", nil, renterToken)
		s.Require().Equal(http.StatusOK, rec.Code)
	})

	s.Run("cancelling twice is rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings/"+receipt.BookingID.String()+"/cancel", nil, renterToken)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("the freed slot can be booked again", func() {
		otherToken := s.token(uuid.New(), auth.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
			s.createBody(vehicleID, start, end), otherToken)
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *BookingFlowE2ETestSuite) TestAuthenticationRequired() {
	s.Run("missing token", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/bookings", nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("garbage token", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/api/bookings", nil, "not-a-jwt")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("health endpoint is open", func() {
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodGet, "/health", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *BookingFlowE2ETestSuite) TestGatewayFailureRollsBack() {
	daily := int64(150000)
	vehicleID := dbtest.CreateTestVehicle(s.T(), s.app.Pool, uuid.New(), "Honda", "Civic", &daily, nil)
	token := s.token(uuid.New(), auth.RoleRenter)

	s.app.Gateway.failNext = true
	rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
		s.createBody(vehicleID, builder.BaseTime.Add(48*time.Hour), builder.BaseTime.Add(96*time.Hour)), token)
	s.Require().Equal(http.StatusBadGateway, rec.Code)

	// The slot is immediately available again.
	rec = httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
		s.createBody(vehicleID, builder.BaseTime.Add(48*time.Hour), builder.BaseTime.Add(96*time.Hour)), token)
	s.Equal(http.StatusCreated, rec.Code)
}

type BookingRateLimitE2ETestSuite struct {
	suite.Suite
	app *testApp
}

func TestBookingRateLimitE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(BookingRateLimitE2ETestSuite))
}

func (s *BookingRateLimitE2ETestSuite) SetupTest() {
	s.app = setupTestApp(s.T(), func(cfg *config.Config) {
		cfg.RateLimit.BookingCreate = "3-M"
	})
}

func (s *BookingRateLimitE2ETestSuite) TestCreateBookingIsRateLimited() {
	daily := int64(150000)
	vehicleID := dbtest.CreateTestVehicle(s.T(), s.app.Pool, uuid.New(), "Toyota", "Corolla", &daily, nil)

	userID := uuid.New()
	token, err := s.app.JWT.GenerateToken(userID, auth.RoleRenter)
	s.Require().NoError(err)

	// First three attempts pass the limiter regardless of outcome; the
	// fourth within the same window is rejected.
	for i := 0; i < 3; i++ {
		start := builder.BaseTime.Add(time.Duration(48+24*i) * time.Hour)
		rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
			map[string]any{
				"vehicle_id": vehicleID.String(),
				"start_time": start.Format(time.RFC3339),
				"end_time":   start.Add(24 * time.Hour).Format(time.RFC3339),
			}, token)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	}

	start := builder.BaseTime.Add(240 * time.Hour)
	rec := httptest.PerformRequest(s.T(), s.app.Router, http.MethodPost, "/api/bookings",
		map[string]any{
			"vehicle_id": vehicleID.String(),
			"start_time": start.Format(time.RFC3339),
			"end_time":   start.Add(24 * time.Hour).Format(time.RFC3339),
		}, token)
	s.Equal(http.StatusTooManyRequests, rec.Code)
}
