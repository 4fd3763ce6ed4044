package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"serendib/mailer"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB connects to the database named by DATABASE_CONNECTION_STR, skipping
// the test when none is configured.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_CONNECTION_STR")
	if dsn == "" {
		t.Skip("DATABASE_CONNECTION_STR not set")
	}
	conn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCategoryLifecycle(t *testing.T) {
	SetDB(testDB(t))

	name := fmt.Sprintf("it-category-%d", os.Getpid())

	// Create
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/admin/add-category", strings.NewReader(`{"name": "`+name+`"}`))
	AddCategory(rec, r)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	id := body["category"].(map[string]interface{})["id"].(string)

	// Duplicate name is refused
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/admin/add-category", strings.NewReader(`{"name": "`+name+`"}`))
	AddCategory(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name already exists!", decodeBody(t, rec)["message"])

	// Rename
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPut, "/api/admin/update-category/"+id, strings.NewReader(`{"name": "`+name+`-renamed"}`))
	r.SetPathValue("id", id)
	UpdateCategory(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Delete
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/api/admin/delete-category/"+id, nil)
	r.SetPathValue("id", id)
	DeleteCategory(rec, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Category deleted", decodeBody(t, rec)["message"])

	// Deleting again reports not found
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/api/admin/delete-category/"+id, nil)
	r.SetPathValue("id", id)
	DeleteCategory(rec, r)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decodeBody(t, rec)["message"])
}

// fakeMailer records every send so tests can assert on notification traffic.
// A non-nil err makes every send fail.
type reservationSend struct {
	to      string
	details mailer.ReservationDetails
}

type orderSend struct {
	to      string
	details mailer.OrderDetails
}

type fakeMailer struct {
	err       error
	confirmed []reservationSend
	rejected  []reservationSend
	replies   []string
	received  []orderSend
	ready     []orderSend
	delivered []orderSend
}

func (f *fakeMailer) SendReservationConfirmed(to string, details mailer.ReservationDetails) error {
	f.confirmed = append(f.confirmed, reservationSend{to, details})
	return f.err
}

func (f *fakeMailer) SendReservationRejected(to string, details mailer.ReservationDetails) error {
	f.rejected = append(f.rejected, reservationSend{to, details})
	return f.err
}

func (f *fakeMailer) SendQueryReply(to string, message string) error {
	f.replies = append(f.replies, message)
	return f.err
}

func (f *fakeMailer) SendOrderReceived(to string, details mailer.OrderDetails) error {
	f.received = append(f.received, orderSend{to, details})
	return f.err
}

func (f *fakeMailer) SendOrderReady(to string, details mailer.OrderDetails) error {
	f.ready = append(f.ready, orderSend{to, details})
	return f.err
}

func (f *fakeMailer) SendOrderDelivered(to string, details mailer.OrderDetails) error {
	f.delivered = append(f.delivered, orderSend{to, details})
	return f.err
}

func seedOrderFixtures(t *testing.T, conn *sqlx.DB) (userID, menuID uuid.UUID, email string) {
	t.Helper()
	userID = uuid.New()
	catID := uuid.New()
	menuID = uuid.New()
	suffix := uuid.NewString()[:8]
	email = "it-" + suffix + "@example.com"

	_, err := conn.Exec(`INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, 'x')`,
		userID, "it-user-"+suffix, email)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO categories (id, name) VALUES ($1, $2)`, catID, "it-cat-"+suffix)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO menu (id, title, description, image_url, price, category_id)
		VALUES ($1, $2, 'crispy', '/uploads/menu/it.jpg', 950, $3)`, menuID, "it-dish-"+suffix, catID)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Exec(`DELETE FROM orders WHERE user_id = $1`, userID)
		conn.Exec(`DELETE FROM menu WHERE id = $1`, menuID)
		conn.Exec(`DELETE FROM categories WHERE id = $1`, catID)
		conn.Exec(`DELETE FROM users WHERE id = $1`, userID)
	})
	return userID, menuID, email
}

func postOrder(t *testing.T, in orderInput) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(in)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/admin/add-order", strings.NewReader(string(body)))
	AddOrder(rec, r)
	return rec
}

// An unknown menu id on any line aborts the create with nothing persisted.
func TestAddOrderUnknownMenuItemPersistsNothing(t *testing.T) {
	conn := testDB(t)
	SetDB(conn)
	fake := &fakeMailer{}
	SetMailer(fake)

	userID, menuID, email := seedOrderFixtures(t, conn)
	missingID := uuid.NewString()
	orderRef := "it-ord-" + uuid.NewString()[:8]

	rec := postOrder(t, orderInput{
		User:    userID.String(),
		OrderID: orderRef,
		Name:    "Nimal",
		Email:   email,
		MenuItems: []orderLineInput{
			{MenuItemID: menuID.String(), Quantity: 1},
			{MenuItemID: missingID, Quantity: 2},
		},
		ShippingAddress: "42 Lake Road",
		City:            "Kandy",
		Phone:           "0771234567",
		TotalPrice:      2850,
		Branch:          "Kandy",
	})

	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf("Menu item with ID %s not found", missingID), decodeBody(t, rec)["message"])

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM orders WHERE order_id = $1`, orderRef))
	assert.Zero(t, count)
	assert.Empty(t, fake.received)
}

func TestAddOrderPersistsOrderAndLines(t *testing.T) {
	conn := testDB(t)
	SetDB(conn)
	fake := &fakeMailer{}
	SetMailer(fake)

	userID, menuID, email := seedOrderFixtures(t, conn)
	orderRef := "it-ord-" + uuid.NewString()[:8]

	rec := postOrder(t, orderInput{
		User:    userID.String(),
		OrderID: orderRef,
		Name:    "Nimal",
		Email:   email,
		MenuItems: []orderLineInput{
			{MenuItemID: menuID.String(), Quantity: 1},
			{MenuItemID: menuID.String(), Quantity: 2},
		},
		ShippingAddress: "42 Lake Road",
		City:            "Kandy",
		Phone:           "0771234567",
		TotalPrice:      2850,
		Branch:          "Kandy",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	var internalID uuid.UUID
	require.NoError(t, conn.Get(&internalID, `SELECT id FROM orders WHERE order_id = $1`, orderRef))

	var lines int
	require.NoError(t, conn.Get(&lines, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, internalID))
	assert.Equal(t, 2, lines)

	require.Len(t, fake.received, 1)
	assert.Equal(t, email, fake.received[0].to)
	assert.Equal(t, orderRef, fake.received[0].details.OrderID)
}

func seedReservation(t *testing.T, conn *sqlx.DB) (id uuid.UUID, email string) {
	t.Helper()
	id = uuid.New()
	email = "it-" + uuid.NewString()[:8] + "@example.com"

	_, err := conn.Exec(`INSERT INTO reservations (id, name, email, phone, date, time, people, message, status, branch)
		VALUES ($1, 'Nimal', $2, '0771234567', '2025-06-15', '19:30', 4, '', 'pending', 'Colombo')`, id, email)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Exec(`DELETE FROM reservations WHERE id = $1`, id) })
	return id, email
}

// Confirming a pending reservation sends exactly one email carrying the
// reservation details.
func TestConfirmReservationNotifiesOnce(t *testing.T) {
	conn := testDB(t)
	SetDB(conn)
	fake := &fakeMailer{}
	SetMailer(fake)

	id, email := seedReservation(t, conn)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/admin/confirm-reservation/"+id.String(), nil)
	r.SetPathValue("id", id.String())
	ConfirmReservation(rec, r)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Reservation confirmed successfully!", decodeBody(t, rec)["message"])

	require.Len(t, fake.confirmed, 1)
	assert.Equal(t, email, fake.confirmed[0].to)
	assert.Equal(t, mailer.ReservationDetails{
		Date:   "2025-06-15",
		Time:   "19:30",
		People: 4,
		Branch: "Colombo",
	}, fake.confirmed[0].details)
	assert.Empty(t, fake.rejected)

	var status string
	require.NoError(t, conn.Get(&status, `SELECT status FROM reservations WHERE id = $1`, id))
	assert.Equal(t, "confirmed", status)
}

// A failed notification degrades the response to 500 but the committed
// status change stands.
func TestRejectReservationEmailFailureKeepsTransition(t *testing.T) {
	conn := testDB(t)
	SetDB(conn)
	fake := &fakeMailer{err: assert.AnError}
	SetMailer(fake)

	id, _ := seedReservation(t, conn)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/admin/reject-reservation/"+id.String(), nil)
	r.SetPathValue("id", id.String())
	RejectReservation(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send notification email", decodeBody(t, rec)["message"])
	require.Len(t, fake.rejected, 1)

	var status string
	require.NoError(t, conn.Get(&status, `SELECT status FROM reservations WHERE id = $1`, id))
	assert.Equal(t, "rejected", status)
}
