// internal/core/services/dashboard_service_test.go
package services_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/services"
	"github.com/candyline/sweetshop/test/helpers"
	"github.com/candyline/sweetshop/test/mocks"
)

// fakeClock is a manually advanced time source for notice expiry
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDashboard(t *testing.T) (*services.Dashboard, *mocks.MockCatalogClient, *fakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogClient(ctrl)
	clock := newFakeClock()
	dashboard := services.NewDashboard(catalog, helpers.TestLogger(),
		services.WithClock(clock.Now))
	return dashboard, catalog, clock
}

func TestDashboard_Load(t *testing.T) {
	t.Run("idle_to_loading_to_ready", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		assert.Equal(t, services.StateIdle, dashboard.State())

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		assert.Equal(t, services.StateReady, dashboard.State())
		assert.Equal(t, items, dashboard.Visible())
		assert.Equal(t, items, dashboard.Catalog())
		assert.Empty(t, dashboard.LastError())
	})

	t.Run("failure_enters_error_state_and_keeps_last_known_items", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		catalog.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("connection refused"))
		err := dashboard.Load(context.Background())

		require.Error(t, err)
		assert.Equal(t, services.StateError, dashboard.State())
		assert.Equal(t, services.MsgFetchFailed, dashboard.LastError())
		assert.Equal(t, items, dashboard.Visible())
	})

	t.Run("reload_reapplies_active_filter", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()
		chocolateOnly := items[2:]
		criteria := domain.FilterCriteria{Category: "chocolate"}

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		catalog.EXPECT().Search(gomock.Any(), criteria).Return(chocolateOnly, nil)
		require.NoError(t, dashboard.SetFilter(context.Background(), criteria))
		assert.Equal(t, chocolateOnly, dashboard.Visible())

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		catalog.EXPECT().Search(gomock.Any(), criteria).Return(chocolateOnly, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		assert.Equal(t, chocolateOnly, dashboard.Visible())
		assert.Equal(t, items, dashboard.Catalog())
	})
}

func TestDashboard_SetFilter(t *testing.T) {
	t.Run("empty_criteria_uses_baseline_without_network", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		// no Search expectation: an all-empty filter must not hit the API
		require.NoError(t, dashboard.SetFilter(context.Background(), domain.FilterCriteria{}))
		assert.Equal(t, items, dashboard.Visible())
	})

	t.Run("search_replaces_visible_but_not_baseline", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()
		criteria := domain.FilterCriteria{Name: "ladoo"}

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		catalog.EXPECT().Search(gomock.Any(), criteria).Return(items[1:2], nil)
		require.NoError(t, dashboard.SetFilter(context.Background(), criteria))

		assert.Equal(t, items[1:2], dashboard.Visible())
		assert.Equal(t, items, dashboard.Catalog())

		// clearing the filter restores the untouched baseline
		require.NoError(t, dashboard.SetFilter(context.Background(), domain.FilterCriteria{}))
		assert.Equal(t, items, dashboard.Visible())
	})

	t.Run("search_failure_emits_notice_and_keeps_visible", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()
		criteria := domain.FilterCriteria{Name: "ladoo"}

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		catalog.EXPECT().Search(gomock.Any(), criteria).Return(nil, errors.New("timeout"))
		err := dashboard.SetFilter(context.Background(), criteria)

		require.Error(t, err)
		assert.Equal(t, items, dashboard.Visible())
		assert.Equal(t, services.StateReady, dashboard.State())

		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, domain.SeverityError, notices[0].Severity)
		assert.Equal(t, services.MsgSearchFailed, notices[0].Message)
	})

	t.Run("stale_search_response_is_discarded", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()
		oldCriteria := domain.FilterCriteria{Name: "gulab"}
		newCriteria := domain.FilterCriteria{Name: "ladoo"}

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		release := make(chan struct{})
		started := make(chan struct{})
		catalog.EXPECT().
			Search(gomock.Any(), oldCriteria).
			DoAndReturn(func(context.Context, domain.FilterCriteria) ([]domain.Sweet, error) {
				close(started)
				<-release
				return items[0:1], nil
			})
		catalog.EXPECT().Search(gomock.Any(), newCriteria).Return(items[1:2], nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = dashboard.SetFilter(context.Background(), oldCriteria)
		}()

		<-started
		require.NoError(t, dashboard.SetFilter(context.Background(), newCriteria))
		close(release)
		wg.Wait()

		// the older search resolved last but must not overwrite the newer one
		assert.Equal(t, items[1:2], dashboard.Visible())
	})
}

func TestDashboard_Purchase(t *testing.T) {
	t.Run("success_emits_notice_and_reloads", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		gomock.InOrder(
			catalog.EXPECT().Purchase(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil),
		)

		require.NoError(t, dashboard.Purchase(context.Background(), 1))

		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, domain.SeveritySuccess, notices[0].Severity)
		assert.Equal(t, services.MsgPurchased, notices[0].Message)
		assert.Equal(t, items, dashboard.Visible())
	})

	t.Run("out_of_stock_surfaces_server_message_without_reload", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		remoteErr := &domain.RemoteError{
			StatusCode: http.StatusBadRequest,
			Message:    "Sweet is out of stock",
		}
		catalog.EXPECT().Purchase(gomock.Any(), int64(2)).Return(remoteErr)

		err := dashboard.Purchase(context.Background(), 2)

		require.Error(t, err)
		assert.True(t, domain.IsOutOfStock(err))
		assert.Equal(t, items, dashboard.Visible())
		assert.Equal(t, services.StateReady, dashboard.State())

		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, "Sweet is out of stock", notices[0].Message)
	})

	t.Run("transport_failure_uses_generic_fallback_message", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)

		catalog.EXPECT().Purchase(gomock.Any(), int64(1)).Return(errors.New("connection reset"))

		err := dashboard.Purchase(context.Background(), 1)

		require.Error(t, err)
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, services.MsgPurchaseFailed, notices[0].Message)
	})
}

func TestDashboard_Delete(t *testing.T) {
	t.Run("declined_confirmation_makes_no_network_call", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		// no Delete expectation: declining must not touch the API
		require.NoError(t, dashboard.Delete(context.Background(), 1, func() bool { return false }))

		assert.Equal(t, items, dashboard.Visible())
		assert.Empty(t, dashboard.Notices())
	})

	t.Run("confirmed_delete_reloads_and_notifies", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		remaining := helpers.CreateTestCatalog()[1:]

		gomock.InOrder(
			catalog.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(remaining, nil),
		)

		require.NoError(t, dashboard.Delete(context.Background(), 1, func() bool { return true }))

		assert.Equal(t, remaining, dashboard.Visible())
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, services.MsgDeleted, notices[0].Message)
	})

	t.Run("nil_confirm_is_treated_as_confirmed", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)

		gomock.InOrder(
			catalog.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
		)

		require.NoError(t, dashboard.Delete(context.Background(), 1, nil))
	})
}

func TestDashboard_Restock(t *testing.T) {
	t.Run("non_positive_quantity_rejected_before_any_network_call", func(t *testing.T) {
		dashboard, _, _ := newTestDashboard(t)

		for _, quantity := range []int{0, -1, -50} {
			err := dashboard.Restock(context.Background(), 1, quantity)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		}
		assert.Empty(t, dashboard.Notices())
	})

	t.Run("restock_is_reflected_by_the_reload", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		restocked := helpers.CreateTestCatalog()
		restocked[0].Quantity = items[0].Quantity + 5

		gomock.InOrder(
			catalog.EXPECT().Restock(gomock.Any(), int64(1), 5).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(restocked, nil),
		)

		require.NoError(t, dashboard.Restock(context.Background(), 1, 5))

		assert.Equal(t, restocked[0].Quantity, dashboard.Visible()[0].Quantity)
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, services.MsgRestocked, notices[0].Message)
	})

	t.Run("server_rejection_keeps_catalog_unchanged", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()

		catalog.EXPECT().ListAll(gomock.Any()).Return(items, nil)
		require.NoError(t, dashboard.Load(context.Background()))

		remoteErr := &domain.RemoteError{
			StatusCode: http.StatusBadRequest,
			Message:    "Quantity must be a positive number",
		}
		catalog.EXPECT().Restock(gomock.Any(), int64(1), 3).Return(remoteErr)

		err := dashboard.Restock(context.Background(), 1, 3)

		require.Error(t, err)
		assert.Equal(t, items, dashboard.Visible())
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, "Quantity must be a positive number", notices[0].Message)
	})
}

func TestDashboard_Save(t *testing.T) {
	t.Run("validation_failure_returns_without_notice_or_network", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)

		form := services.NewCreateForm(catalog)
		form.Name = "Barfi"
		form.Category = "Indian"
		form.Price = "not-a-price"
		form.Quantity = "10"

		err := dashboard.Save(context.Background(), form)

		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, dashboard.Notices())
		// entered values are retained for correction
		assert.Equal(t, "not-a-price", form.Price)
	})

	t.Run("remote_failure_surfaces_server_message", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)

		remoteErr := &domain.RemoteError{StatusCode: http.StatusBadRequest, Message: "Sweet already exists"}
		catalog.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, remoteErr)

		form := services.NewCreateForm(catalog)
		form.Name = "Barfi"
		form.Category = "Indian"
		form.Price = "4.25"
		form.Quantity = "10"

		err := dashboard.Save(context.Background(), form)

		require.Error(t, err)
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, "Sweet already exists", notices[0].Message)
	})

	t.Run("success_notifies_and_reloads", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)
		items := helpers.CreateTestCatalog()
		created := helpers.CreateTestSweet(func(s *domain.Sweet) { s.ID = 4; s.Name = "Barfi" })

		gomock.InOrder(
			catalog.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&created, nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(append(items, created), nil),
		)

		form := services.NewCreateForm(catalog)
		form.Name = "Barfi"
		form.Category = "Indian"
		form.Price = "4.25"
		form.Quantity = "10"

		require.NoError(t, dashboard.Save(context.Background(), form))

		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, services.MsgSaved, notices[0].Message)
		assert.Len(t, dashboard.Visible(), 4)
	})
}

func TestDashboard_Notices(t *testing.T) {
	t.Run("notice_expires_after_ttl", func(t *testing.T) {
		dashboard, catalog, clock := newTestDashboard(t)

		gomock.InOrder(
			catalog.EXPECT().Purchase(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
		)
		require.NoError(t, dashboard.Purchase(context.Background(), 1))
		require.Len(t, dashboard.Notices(), 1)

		clock.Advance(services.DefaultNoticeTTL - time.Millisecond)
		assert.Len(t, dashboard.Notices(), 1)

		clock.Advance(2 * time.Millisecond)
		assert.Empty(t, dashboard.Notices())
	})

	t.Run("latest_notice_overwrites_and_resets_its_own_timer", func(t *testing.T) {
		dashboard, catalog, clock := newTestDashboard(t)

		gomock.InOrder(
			catalog.EXPECT().Purchase(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
			catalog.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
		)

		require.NoError(t, dashboard.Purchase(context.Background(), 1))
		clock.Advance(2 * time.Second)
		require.NoError(t, dashboard.Delete(context.Background(), 2, nil))

		// only one success notice, the latest, with a fresh timer
		clock.Advance(2 * time.Second)
		notices := dashboard.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, services.MsgDeleted, notices[0].Message)
	})

	t.Run("one_notice_per_severity_success_and_error_coexist", func(t *testing.T) {
		dashboard, catalog, _ := newTestDashboard(t)

		gomock.InOrder(
			catalog.EXPECT().Purchase(gomock.Any(), int64(1)).Return(nil),
			catalog.EXPECT().ListAll(gomock.Any()).Return(nil, nil),
			catalog.EXPECT().Purchase(gomock.Any(), int64(2)).Return(errors.New("boom")),
		)

		require.NoError(t, dashboard.Purchase(context.Background(), 1))
		require.Error(t, dashboard.Purchase(context.Background(), 2))

		notices := dashboard.Notices()
		require.Len(t, notices, 2)
		assert.Equal(t, domain.SeveritySuccess, notices[0].Severity)
		assert.Equal(t, domain.SeverityError, notices[1].Severity)
	})
}
