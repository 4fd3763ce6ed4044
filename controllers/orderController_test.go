package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"serendib/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrderInput() orderInput {
	return orderInput{
		User:            uuid.NewString(),
		OrderID:         "ORD-1001",
		Name:            "Nimal",
		Email:           "nimal@example.com",
		MenuItems:       []orderLineInput{{MenuItemID: uuid.NewString(), Quantity: 2}},
		ShippingAddress: "42 Lake Road",
		City:            "Kandy",
		Phone:           "0771234567",
		TotalPrice:      1900,
		Branch:          "Kandy",
	}
}

func TestOrderInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *orderInput)
		wantErr string
	}{
		{"valid", func(in *orderInput) {}, ""},
		{"missing user", func(in *orderInput) { in.User = "" }, "user is required"},
		{"missing order id", func(in *orderInput) { in.OrderID = "" }, "orderId is required"},
		{"missing name", func(in *orderInput) { in.Name = "" }, "customer name and email are required"},
		{"missing email", func(in *orderInput) { in.Email = "" }, "customer name and email are required"},
		{"missing city", func(in *orderInput) { in.City = "" }, "shipping address, city and phone are required"},
		{"missing branch", func(in *orderInput) { in.Branch = "" }, "branch is required"},
		{"no items", func(in *orderInput) { in.MenuItems = nil }, "at least one menu item is required"},
		{"empty item id", func(in *orderInput) { in.MenuItems[0].MenuItemID = "" }, "menuItemId is required on every line item"},
		{"zero quantity", func(in *orderInput) { in.MenuItems[0].Quantity = 0 }, "quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validOrderInput()
			tt.mutate(&in)

			err := in.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestOrderSort(t *testing.T) {
	tests := []struct {
		sortBy    string
		sortOrder string
		want      string
	}{
		{"dateOrdered", "asc", "date_ordered ASC"},
		{"dateOrdered", "desc", "date_ordered DESC"},
		{"createdAt", "", "created_at DESC"},
		{"totalPrice", "asc", "total_price ASC"},
		{"status", "desc", "status DESC"},
		{"name", "asc", "name ASC"},
		{"", "", "date_ordered DESC"},
		{"total_price; DROP TABLE orders", "asc", "date_ordered ASC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, orderSort(tt.sortBy, tt.sortOrder), "sortBy=%q sortOrder=%q", tt.sortBy, tt.sortOrder)
	}
}

func TestReceiptItems(t *testing.T) {
	items := []models.OrderItem{
		{Title: "Kottu Roti", Price: 950, Quantity: 2, ImageURL: "/uploads/menu/kottu.jpg"},
		{Title: "Mango Lassi", Price: 550.5, Quantity: 1},
	}

	snapshot := receiptItems(items)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "Kottu Roti", snapshot[0].Name)
	assert.Equal(t, 950.0, snapshot[0].Price)
	assert.Equal(t, 2, snapshot[0].Quantity)
	assert.Equal(t, "/uploads/menu/kottu.jpg", snapshot[0].ImageURL)
	assert.Equal(t, "Mango Lassi", snapshot[1].Name)

	assert.Empty(t, receiptItems(nil))
}

func TestGetOrdersRejectsInvalidUserFilter(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/admin/get-orders?user=not-a-uuid", nil)
	GetOrders(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success": false, "message": "Invalid user id"}`, rec.Body.String())
}

func TestOrderMailDetails(t *testing.T) {
	order := models.Order{
		OrderID:         "ORD-1001",
		Name:            "Nimal",
		TotalPrice:      2450.5,
		ShippingAddress: "42 Lake Road",
		City:            "Kandy",
		Branch:          "Kandy",
		MenuItems:       []models.OrderItem{{Title: "Kottu Roti", Price: 950, Quantity: 2}},
	}

	details := orderMailDetails(order)
	assert.Equal(t, "ORD-1001", details.OrderID)
	assert.Equal(t, "Nimal", details.Name)
	assert.Equal(t, 2450.5, details.TotalPrice)
	require.Len(t, details.Items, 1)
	assert.Equal(t, "Kottu Roti", details.Items[0].Name)
}
