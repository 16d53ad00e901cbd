package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_DecodeRow(t *testing.T) {
	payload := `{"results":[
		{"other_marketplace":{"id":7,"name":"Chair","sku":"WB-1","vendor":"CH-1","barcode":"460"},"moy_sklad":{"id":9,"name":"Chair","sku":"MS-1","vendor":"CH-1","barcode":"460"}},
		{"other_marketplace":null,"moy_sklad":{"id":11,"name":"Desk","sku":"MS-2","vendor":"DS-1","barcode":"461"}}
	]}`

	var page struct {
		Results []Product `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &page))
	require.Len(t, page.Results, 2)

	first := page.Results[0]
	assert.True(t, first.IsLinked())
	assert.Equal(t, ID(7), first.OtherMarketplace.ID)
	assert.Equal(t, "MS-1", first.MoySklad.SKU)

	second := page.Results[1]
	assert.False(t, second.HasMarketplace())
	assert.True(t, second.HasWarehouse())
	assert.Equal(t, []ID{11}, ResolveIDs(second))
}

func TestOrderItem_Decode(t *testing.T) {
	payload := `{
		"id": 3, "product": 7, "quantity": 2, "price": "199.90", "sticker": "",
		"order_number": "WB-100", "order_status_name": "New", "order_status_color": "#00FF00",
		"platform_name": "Wildberries", "product_name": "Chair", "product_brand": "Acme",
		"product_barcode": "460", "created_dt": "2024-03-01", "shipped_dt": null
	}`

	var item OrderItem
	require.NoError(t, json.Unmarshal([]byte(payload), &item))

	assert.Equal(t, ID(7), item.ProductID)
	assert.True(t, decimal.RequireFromString("199.90").Equal(item.Price))
	assert.Equal(t, "2024-03-01", item.CreatedAt.String())
	assert.Nil(t, item.ShippedAt)
	assert.False(t, item.IsShipped())
}

func TestDate_JSON(t *testing.T) {
	t.Run("round trips calendar date", func(t *testing.T) {
		d := NewDate(time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC))

		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `"2024-05-17"`, string(data))
	})

	t.Run("zero date marshals to null", func(t *testing.T) {
		data, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("accepts RFC 3339 and placeholder", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-05-17T10:00:00Z"`), &d))
		assert.Equal(t, 17, d.Day())

		require.NoError(t, json.Unmarshal([]byte(`"-"`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`17`), &d))
	})
}

func TestOrdersCounts_ForTab(t *testing.T) {
	c := OrdersCounts{All: 10, Urgent: 2, Today: 3, Other: 5}

	assert.Equal(t, 10, c.ForTab(OrdersTabAll))
	assert.Equal(t, 2, c.ForTab(OrdersTabUrgent))
	assert.Equal(t, 3, c.ForTab(OrdersTabToday))
	assert.Equal(t, 5, c.ForTab(OrdersTabOther))
}
