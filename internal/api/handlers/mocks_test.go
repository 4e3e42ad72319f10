package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"lifelink-api-server/internal/api/middleware"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// as injects a caller identity the way Authenticate would.
func as(id models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityKey, id)
		c.Next()
	}
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUserStore) List(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserStore) MatchDonors(ctx context.Context, match models.DonorMatch) ([]models.User, error) {
	args := m.Called(ctx, match)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id string, fields map[string]string) (*models.User, error) {
	return m.user(m.Called(ctx, id, fields))
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserStore) SetStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockUserStore) SetRole(ctx context.Context, id, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserStore) SetAvailability(ctx context.Context, id, availability, district, upazila string) error {
	return m.Called(ctx, id, availability, district, upazila).Error(0)
}

func (m *mockUserStore) CountByRole(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockDonationStore struct {
	mock.Mock
}

func (m *mockDonationStore) Create(ctx context.Context, req *models.DonationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockDonationStore) FindByID(ctx context.Context, id string) (*models.DonationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DonationRequest), args.Error(1)
}

func (m *mockDonationStore) ListByRequester(ctx context.Context, requesterID, status string) ([]models.DonationRequest, error) {
	args := m.Called(ctx, requesterID, status)
	return args.Get(0).([]models.DonationRequest), args.Error(1)
}

func (m *mockDonationStore) List(ctx context.Context, status string) ([]models.DonationRequest, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.DonationRequest), args.Error(1)
}

func (m *mockDonationStore) Transition(ctx context.Context, id string, t models.DonationTransition) (*models.DonationRequest, error) {
	args := m.Called(ctx, id, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DonationRequest), args.Error(1)
}

func (m *mockDonationStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockFundStore struct {
	mock.Mock
}

func (m *mockFundStore) Create(ctx context.Context, fund *models.FundRecord) error {
	return m.Called(ctx, fund).Error(0)
}

func (m *mockFundStore) List(ctx context.Context) ([]models.FundRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FundRecord), args.Error(1)
}

func (m *mockFundStore) Total(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockGeoStore struct {
	mock.Mock
}

func (m *mockGeoStore) Districts(ctx context.Context) ([]models.District, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.District), args.Error(1)
}

func (m *mockGeoStore) Upazilas(ctx context.Context, districtID string) ([]models.Upazila, error) {
	args := m.Called(ctx, districtID)
	return args.Get(0).([]models.Upazila), args.Error(1)
}

type mockRequestStore struct {
	mock.Mock
}

func (m *mockRequestStore) request(args mock.Arguments) (*models.Request, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *mockRequestStore) Create(ctx context.Context, req *models.Request) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockRequestStore) ListForVolunteer(ctx context.Context, volunteerID string) ([]models.Request, error) {
	args := m.Called(ctx, volunteerID)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *mockRequestStore) ListByRequester(ctx context.Context, requesterID string) ([]models.Request, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *mockRequestStore) Accept(ctx context.Context, id string, by models.PersonRef) (*models.Request, error) {
	return m.request(m.Called(ctx, id, by))
}

func (m *mockRequestStore) Complete(ctx context.Context, id string, by models.PersonRef) (*models.Request, error) {
	return m.request(m.Called(ctx, id, by))
}

type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationStore) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockNotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(n models.Notification) {
	m.Called(n)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, markdown string) error {
	return m.Called(ctx, to, subject, markdown).Error(0)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) intent(args mock.Arguments) (*payment.Intent, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *mockPayments) CreateIntent(ctx context.Context, amount float64) (*payment.Intent, error) {
	return m.intent(m.Called(ctx, amount))
}

func (m *mockPayments) GetIntent(ctx context.Context, id string) (*payment.Intent, error) {
	return m.intent(m.Called(ctx, id))
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Generate(user models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}
