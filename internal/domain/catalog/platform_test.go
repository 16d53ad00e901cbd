package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatformType(t *testing.T) {
	got, err := ParsePlatformType("3")
	require.NoError(t, err)
	assert.Equal(t, PlatformOzon, got)

	for _, raw := range []string{"", "x", "-1", "5"} {
		_, err := ParsePlatformType(raw)
		assert.Equal(t, ErrUnknownPlatformType, err, raw)
	}
}

func TestPlatformLabels(t *testing.T) {
	assert.Equal(t, []string{"Wildberries", "Yandex Market", "MegaMarket", "OZON"}, PlatformLabels(false))

	withWarehouse := PlatformLabels(true)
	require.Len(t, withWarehouse, 5)
	assert.Equal(t, "Moy Sklad", withWarehouse[PlatformMoySklad])

	withWarehouse[0] = "changed"
	assert.Equal(t, "Wildberries", PlatformLabels(true)[0])
}

func TestPlatformType_Label(t *testing.T) {
	assert.Equal(t, "OZON", PlatformOzon.String())
	assert.Equal(t, "unknown", PlatformType(42).Label())
	assert.True(t, PlatformMoySklad.IsWarehouse())
	assert.False(t, PlatformWildberries.IsWarehouse())
	assert.NotContains(t, MarketplacePlatformTypes(), PlatformMoySklad)
}

func TestAuthFieldsDescription_JSON(t *testing.T) {
	tests := []struct {
		name string
		t    PlatformType
		want string
	}{
		{
			name: "default token",
			t:    PlatformWildberries,
			want: `{"token":{"name":"Token","type":"text","max_length":255}}`,
		},
		{
			name: "ozon token and client id",
			t:    PlatformOzon,
			want: `{"client_id":{"name":"Client ID","type":"text","max_length":255},"token":{"name":"Token","type":"text","max_length":255}}`,
		},
		{
			name: "moy sklad login and password",
			t:    PlatformMoySklad,
			want: `{"login":{"name":"Login","type":"text","max_length":255},"password":{"name":"Password","type":"password","max_length":255}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(AuthFieldsDescription(tt.t))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
