package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testReservation = ReservationDetails{
	Date:   "2025-06-15",
	Time:   "19:30",
	People: 4,
	Branch: "Colombo",
}

func TestReservationConfirmedBody(t *testing.T) {
	body := reservationConfirmedBody(testReservation)

	assert.Contains(t, body, "Reservation Confirmed!")
	assert.Contains(t, body, "2025-06-15")
	assert.Contains(t, body, "19:30")
	assert.Contains(t, body, "Colombo")
	assert.Contains(t, body, "Serendib Savor")
}

func TestReservationRejectedBody(t *testing.T) {
	body := reservationRejectedBody(testReservation)

	assert.Contains(t, body, "Reservation Rejected")
	assert.Contains(t, body, "could not be confirmed")
	assert.Contains(t, body, "Colombo")
}

func TestQueryReplyBody(t *testing.T) {
	body := queryReplyBody("We open at 11am on weekends.")

	assert.Contains(t, body, "Reply to Your Query")
	assert.Contains(t, body, "We open at 11am on weekends.")
}

func TestOrderBody(t *testing.T) {
	details := OrderDetails{
		OrderID:         "ORD-1001",
		Name:            "Nimal",
		TotalPrice:      2450.5,
		ShippingAddress: "42 Lake Road",
		City:            "Kandy",
		Branch:          "Kandy",
		Items: []ReceiptItem{
			{Name: "Kottu Roti", Price: 950, Quantity: 2, ImageURL: "/uploads/menu/kottu.jpg"},
			{Name: "Mango Lassi", Price: 550.5, Quantity: 1},
		},
	}
	body := orderBody("Order Received!", "Thank you for your order!", details)

	assert.Contains(t, body, "Order Received!")
	assert.Contains(t, body, "Dear Nimal,")
	assert.Contains(t, body, "ORD-1001")
	assert.Contains(t, body, "Rs.2450.50")
	assert.Contains(t, body, "42 Lake Road")
	assert.Contains(t, body, "Kottu Roti")
	assert.Contains(t, body, "Quantity: 2")
	assert.Contains(t, body, "Rs.950.00")
	assert.Contains(t, body, `<img src="/uploads/menu/kottu.jpg"`)
	// The second item has no image, so exactly one img tag.
	assert.Equal(t, 1, strings.Count(body, "<img "))
}
