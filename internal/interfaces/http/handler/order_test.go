package handler

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

func TestOrderHandler_List(t *testing.T) {
	t.Run("page of items", func(t *testing.T) {
		svc := new(MockOrderService)
		shipped := "2026-04-02"
		svc.On("ListOrderItems", mock.Anything, mock.MatchedBy(func(f catalog.OrderItemFilter) bool {
			return f.UserID == testUserID &&
				f.Type == catalog.OrdersTypeUrgent &&
				assert.ObjectsAreEqual([]catalog.PlatformType{catalog.PlatformType(1)}, f.PlatformTypes)
		})).Return(shared.NewPage([]catalogapp.OrderItemResponse{{
			ID:          1,
			ProductID:   4,
			Quantity:    2,
			Price:       decimal.RequireFromString("199.90"),
			OrderNumber: "WB-1",
			CreatedAt:   "2026-04-01",
			ShippedAt:   &shipped,
		}}, 31), nil)

		w := serve(t, http.MethodGet, "/order-items/",
			"/order-items/?orders_type=0&order__account__platform__platform_type__in=1", "", testUserID,
			NewOrderHandler(svc).List)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.EqualValues(t, 31, body["count"])
		item := body["results"].([]any)[0].(map[string]any)
		assert.Equal(t, "WB-1", item["order_number"])
		assert.Equal(t, "2026-04-01", item["created_dt"])
		assert.Equal(t, "2026-04-02", item["shipped_dt"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown orders type", func(t *testing.T) {
		svc := new(MockOrderService)
		w := serve(t, http.MethodGet, "/order-items/", "/order-items/?orders_type=7", "", testUserID,
			NewOrderHandler(svc).List)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ListOrderItems", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Counts(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("Counts", mock.Anything, testUserID).Return(catalog.OrdersCounts{All: 10, Urgent: 2, Today: 3, Other: 5}, nil)

	w := serve(t, http.MethodGet, "/get-orders-counts/", "/get-orders-counts/", "", testUserID, NewOrderHandler(svc).Counts)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"all":10,"urgent":2,"today":3,"other":5}`, w.Body.String())
}
