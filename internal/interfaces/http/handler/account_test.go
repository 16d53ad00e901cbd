package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/domain/catalog"
)

func TestAccountHandler_List(t *testing.T) {
	svc := new(MockAccountService)
	svc.On("ListAccounts", mock.Anything, testUserID).Return([]catalogapp.AccountResponse{
		{ID: 1, Name: "WB main"},
		{ID: 2, Name: "Ozon"},
	}, nil)

	w := serve(t, http.MethodGet, "/accounts/", "/accounts/", "", testUserID, NewAccountHandler(svc).List)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[{"id":1,"name":"WB main"},{"id":2,"name":"Ozon"}]}`, w.Body.String())
}

func TestAccountHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockAccountService)
		platform := 1
		svc.On("CreateAccount", mock.Anything, testUserID, catalogapp.CreateAccountRequest{
			Name:                "Shop",
			PlatformType:        &platform,
			AuthorizationFields: map[string]string{"api_key": "k"},
		}).Return(&catalogapp.AccountDetailResponse{
			ID:           3,
			Name:         "Shop",
			PlatformType: 1,
			Platform:     catalog.PlatformType(1).Label(),
			CreatedAt:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		}, nil)

		w := serve(t, http.MethodPost, "/create-account/", "/create-account/",
			`{"name":"Shop","platform_type":1,"authorization_fields":{"api_key":"k"}}`, testUserID,
			NewAccountHandler(svc).Create)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, int64(3), decode[envelope[catalogapp.AccountDetailResponse]](t, w).Data.ID)
	})

	t.Run("missing platform type", func(t *testing.T) {
		w := serve(t, http.MethodPost, "/create-account/", "/create-account/",
			`{"name":"Shop","authorization_fields":{}}`, testUserID, NewAccountHandler(new(MockAccountService)).Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid credentials description", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("CreateAccount", mock.Anything, testUserID, mock.Anything).Return(nil, catalog.ErrMissingAuthField)

		w := serve(t, http.MethodPost, "/create-account/", "/create-account/",
			`{"name":"Shop","platform_type":0,"authorization_fields":{}}`, testUserID, NewAccountHandler(svc).Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", catalog.ErrAccountNotFound, http.StatusNotFound},
		{"foreign", catalog.ErrForeignAccount, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAccountService)
			svc.On("DeleteAccount", mock.Anything, testUserID, int64(8)).Return(tt.err)

			w := serve(t, http.MethodDelete, "/accounts/:id", "/accounts/8", "", testUserID, NewAccountHandler(svc).Delete)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAccountHandler_PlatformTypes(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		withWarehouse bool
	}{
		{"marketplaces only", "/marketplace-types/", false},
		{"with warehouse", "/marketplace-types/?with_moy_sklad=1", true},
		{"explicit false", "/marketplace-types/?with_moy_sklad=false", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAccountService)
			svc.On("PlatformTypes", mock.Anything, tt.withWarehouse).Return([]string{"Wildberries", "OZON"}, nil)

			w := serve(t, http.MethodGet, "/marketplace-types/", tt.target, "", testUserID, NewAccountHandler(svc).PlatformTypes)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `["Wildberries","OZON"]`, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestAccountHandler_AuthFields(t *testing.T) {
	t.Run("known platform", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("AuthFields", catalog.PlatformType(2)).Return(catalog.AuthFields{
			{Key: "client_id", Name: "Client ID", Type: catalog.AuthFieldText, MaxLength: 50},
		}, nil)

		w := serve(t, http.MethodGet, "/platform-auth-fields/:platform_type/", "/platform-auth-fields/2/", "", testUserID,
			NewAccountHandler(svc).AuthFields)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"client_id":{"name":"Client ID","type":"text","max_length":50}}`, w.Body.String())
	})

	t.Run("not a number", func(t *testing.T) {
		w := serve(t, http.MethodGet, "/platform-auth-fields/:platform_type/", "/platform-auth-fields/x/", "", testUserID,
			NewAccountHandler(new(MockAccountService)).AuthFields)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
