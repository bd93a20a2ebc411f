//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"rentwheels/internal/domain/auth"
	"rentwheels/internal/handler/api"
	resdto "rentwheels/internal/handler/dto/response"
	"rentwheels/internal/usecase/commands"
	"rentwheels/internal/usecase/queries"
	"rentwheels/tests/common/builder"
	"rentwheels/tests/common/httptest"
	commandsmock "rentwheels/tests/mock/commands"
	queriesmock "rentwheels/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", auth.RoleRenter)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings", authMiddleware, s.handler.GetUserBookings)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
	s.router.GET("/owners/bookings", authMiddleware, s.handler.GetOwnerBookings)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) createRequestBody() map[string]any {
	return map[string]any{
		"vehicle_id": uuid.New().String(),
		"start_time": builder.BaseTime.Add(48 * time.Hour).Format(time.RFC3339),
		"end_time":   builder.BaseTime.Add(96 * time.Hour).Format(time.RFC3339),
	}
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	s.Run("success: returns 201 with receipt", func() {
		redirect := "https://pay.example.com/x"
		receipt := &commands.BookingReceipt{
			BookingID:     uuid.New(),
			VehicleID:     uuid.New(),
			StartTime:     builder.BaseTime.Add(48 * time.Hour),
			EndTime:       builder.BaseTime.Add(96 * time.Hour),
			TotalCents:    300000,
			Status:        "pending",
			PaymentStatus: "awaiting_payment",
			PaymentRef:    "plink_test",
			RedirectURL:   &redirect,
		}
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
			Return(receipt, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.createRequestBody(), "bearer-token")

		s.Equal(http.StatusCreated, rec.Code)
		var resp resdto.BookingReceiptResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Equal(receipt.BookingID, resp.BookingID)
		s.Equal(int64(300000), resp.TotalCents)
		s.Require().NotNil(resp.RedirectURL)
	})

	s.Run("unauthorized without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.createRequestBody(), "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("bad request on malformed body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"vehicle_id": "not-a-uuid"}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"vehicle not found -> 404", commands.ErrVehicleNotFound, http.StatusNotFound},
		{"invalid slot -> 400", commands.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"no rates -> 422", commands.ErrVehicleNotPriceable, http.StatusUnprocessableEntity},
		{"conflict -> 409", commands.ErrBookingConflict, http.StatusConflict},
		{"gateway failure -> 502", commands.ErrPaymentGatewayFailed, http.StatusBadGateway},
		{"unknown -> 500", commands.ErrDatabaseOperationFailed, http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any()).
				Return(nil, tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.createRequestBody(), "bearer-token")
			s.Equal(tc.expectCode, rec.Code)
		})
	}
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	id := uuid.New()

	s.Run("success: returns booking view", func() {
		view := &queries.BookingView{
			ID:            id,
			VehicleID:     uuid.New(),
			VehicleMake:   "Toyota",
			VehicleModel:  "Corolla",
			UserID:        s.userID,
			StartTime:     builder.BaseTime.Add(48 * time.Hour),
			EndTime:       builder.BaseTime.Add(96 * time.Hour),
			TotalCents:    300000,
			Status:        "confirmed",
			PaymentStatus: "paid",
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, id).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var resp resdto.BookingResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Equal(id, resp.ID)
		s.Equal("Toyota", resp.VehicleMake)
	})

	s.Run("not found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, id).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("invalid id format", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetUserBookings() {
	items := []*queries.BookingListItem{
		{ID: uuid.New(), VehicleMake: "Toyota", VehicleModel: "Corolla", TotalCents: 300000, Status: "confirmed"},
		{ID: uuid.New(), VehicleMake: "Honda", VehicleModel: "Civic", TotalCents: 120000, Status: "pending"},
	}
	s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, gomock.Any()).
		Return(items, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")

	s.Equal(http.StatusOK, rec.Code)
	var resp []*resdto.BookingListResponse
	_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
	s.Len(resp, 2)
}

func (s *BookingHandlerTestSuite) TestGetOwnerBookings() {
	items := []*queries.OwnerBookingItem{
		{ID: uuid.New(), VehicleID: uuid.New(), UserID: uuid.New(), TotalCents: 300000, Status: "confirmed"},
	}
	s.mockQueries.EXPECT().ListByOwner(gomock.Any(), s.userID, gomock.Any()).
		Return(items, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/owners/bookings", nil, "bearer-token")

	s.Equal(http.StatusOK, rec.Code)
	var resp []*resdto.OwnerBookingResponse
	_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
	s.Len(resp, 1)
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/cancel"

	cancelCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"success -> 200", nil, http.StatusOK},
		{"not found -> 404", commands.ErrBookingNotFound, http.StatusNotFound},
		{"finalized -> 409", commands.ErrBookingFinalized, http.StatusConflict},
		{"window closed -> 422", commands.ErrCancellationWindow, http.StatusUnprocessableEntity},
		{"concurrent modification -> 409", commands.ErrConcurrentModification, http.StatusConflict},
	}
	for _, tc := range cancelCases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().CancelBooking(gomock.Any(), id, s.userID).
				Return(tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
			s.Equal(tc.expectCode, rec.Code)
		})
	}

	s.Run("invalid id format", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/xyz/cancel", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
