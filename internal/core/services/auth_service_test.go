// internal/core/services/auth_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/services"
	"github.com/candyline/sweetshop/test/helpers"
	"github.com/candyline/sweetshop/test/mocks"
)

func newTestAuth(t *testing.T) (*services.Auth, *mocks.MockAuthClient, *mocks.MockSessionStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockAuthClient(ctrl)
	store := mocks.NewMockSessionStore(ctrl)
	return services.NewAuth(client, store, helpers.TestLogger()), client, store
}

func TestAuth_Login(t *testing.T) {
	t.Run("persists_the_session_on_success", func(t *testing.T) {
		auth, client, store := newTestAuth(t)
		sess := helpers.CreateTestSession()

		gomock.InOrder(
			client.EXPECT().Login(gomock.Any(), "priya", "secret").Return(sess, nil),
			store.EXPECT().Save(sess).Return(nil),
		)

		got, err := auth.Login(context.Background(), "priya", "secret")
		require.NoError(t, err)
		assert.Equal(t, sess, got)
	})

	t.Run("missing_credentials_rejected_before_any_network_call", func(t *testing.T) {
		auth, _, _ := newTestAuth(t)

		_, err := auth.Login(context.Background(), "", "secret")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		_, err = auth.Login(context.Background(), "priya", "")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("remote_failure_is_not_persisted", func(t *testing.T) {
		auth, client, _ := newTestAuth(t)

		remoteErr := &domain.RemoteError{StatusCode: 401, Message: "Invalid credentials"}
		client.EXPECT().Login(gomock.Any(), "priya", "wrong").Return(nil, remoteErr)

		_, err := auth.Login(context.Background(), "priya", "wrong")
		require.Error(t, err)
		assert.True(t, domain.IsUnauthorized(err))
	})
}

func TestAuth_Register(t *testing.T) {
	auth, client, store := newTestAuth(t)
	sess := helpers.CreateTestSession(func(s *domain.Session) { s.User.Username = "amit" })

	gomock.InOrder(
		client.EXPECT().Register(gomock.Any(), "amit", "amit@example.com", "secret").Return(sess, nil),
		store.EXPECT().Save(sess).Return(nil),
	)

	got, err := auth.Register(context.Background(), "amit", "amit@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "amit", got.User.Username)
}

func TestAuth_Logout(t *testing.T) {
	t.Run("clears_the_store", func(t *testing.T) {
		auth, _, store := newTestAuth(t)
		store.EXPECT().Clear().Return(nil)
		require.NoError(t, auth.Logout(context.Background()))
	})

	t.Run("propagates_store_failure", func(t *testing.T) {
		auth, _, store := newTestAuth(t)
		store.EXPECT().Clear().Return(errors.New("permission denied"))
		require.Error(t, auth.Logout(context.Background()))
	})
}

func TestAuth_Current(t *testing.T) {
	auth, _, store := newTestAuth(t)

	store.EXPECT().Load().Return(nil, nil)
	sess, err := auth.Current()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
