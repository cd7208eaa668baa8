package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/apierror"
	"github.com/KelvinKitheka/stocker/internal/config"
	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/model"
	"github.com/KelvinKitheka/stocker/internal/service"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func testAuthService() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
	}
	return service.NewAuthService(repo, cfg), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "kiosk", user.Username)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "kiosk", Password: "another-pass"})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := testAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Wrong password and unknown user produce the same opaque error.
	_, errWrongPass := svc.Login(ctx, dto.LoginRequest{Username: "kiosk", Password: "nope"})
	_, errNoUser := svc.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "nope"})
	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())

	// Deactivated accounts cannot log in either.
	for _, u := range repo.users {
		u.IsActive = false
	}
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "kiosk", Password: "hunter2hunter2"})
	assert.Error(t, err)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "kiosk", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := testAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
