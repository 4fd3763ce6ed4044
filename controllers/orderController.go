package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"serendib/mailer"
	"serendib/models"
	"serendib/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

var orderColumns = []string{
	"id", "user_id", "order_id", "name", "email", "shipping_address", "city",
	"phone", "status", "total_price", "payment_status", "date_ordered",
	"branch", "special_notes", "created_at", "updated_at",
}

// reportCacheKeys are dropped whenever the order history changes.
var reportCacheKeys = []string{"reports:dashboard", "reports:top-menu-items"}

type orderLineInput struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type orderInput struct {
	User            string           `json:"user"`
	OrderID         string           `json:"orderId"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	MenuItems       []orderLineInput `json:"menuItems"`
	ShippingAddress string           `json:"shippingAddress"`
	City            string           `json:"city"`
	Phone           string           `json:"phone"`
	TotalPrice      float64          `json:"totalPrice"`
	PaymentStatus   string           `json:"paymentStatus"`
	Branch          string           `json:"branch"`
	SpecialNotes    string           `json:"specialNotes"`
}

func (in *orderInput) validate() error {
	switch {
	case in.User == "":
		return errors.New("user is required")
	case in.OrderID == "":
		return errors.New("orderId is required")
	case in.Name == "" || in.Email == "":
		return errors.New("customer name and email are required")
	case in.ShippingAddress == "" || in.City == "" || in.Phone == "":
		return errors.New("shipping address, city and phone are required")
	case in.Branch == "":
		return errors.New("branch is required")
	case len(in.MenuItems) == 0:
		return errors.New("at least one menu item is required")
	}
	for _, line := range in.MenuItems {
		if line.MenuItemID == "" {
			return errors.New("menuItemId is required on every line item")
		}
		if line.Quantity < 1 {
			return errors.New("quantity must be at least 1")
		}
	}
	return nil
}

// receiptItems builds the purchase snapshot attached to order emails.
func receiptItems(items []models.OrderItem) []mailer.ReceiptItem {
	snapshot := make([]mailer.ReceiptItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, mailer.ReceiptItem{
			Name:     item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		})
	}
	return snapshot
}

func orderMailDetails(order models.Order) mailer.OrderDetails {
	return mailer.OrderDetails{
		OrderID:         order.OrderID,
		Name:            order.Name,
		TotalPrice:      order.TotalPrice,
		ShippingAddress: order.ShippingAddress,
		City:            order.City,
		Branch:          order.Branch,
		Items:           receiptItems(order.MenuItems),
	}
}

// AddOrder validates and resolves every line item before anything is
// persisted, then writes the order and its lines in one transaction. The
// submitted totalPrice is trusted as-is. The receipt email is best effort:
// a send failure is logged and the order is still reported as placed.
func AddOrder(w http.ResponseWriter, r *http.Request) {
	var input orderInput
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := input.validate(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := uuid.Parse(input.User)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "COD"
	}

	now := time.Now()
	order := models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderID:         input.OrderID,
		Name:            input.Name,
		Email:           input.Email,
		ShippingAddress: input.ShippingAddress,
		City:            input.City,
		Phone:           input.Phone,
		Status:          "Pending",
		TotalPrice:      input.TotalPrice,
		PaymentStatus:   paymentStatus,
		DateOrdered:     now,
		Branch:          input.Branch,
		SpecialNotes:    input.SpecialNotes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("begin order tx", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	defer tx.Rollback()

	// Resolve all line items first so an unknown menu id aborts the create
	// with nothing persisted.
	for _, line := range input.MenuItems {
		menuID, err := uuid.Parse(line.MenuItemID)
		if err != nil {
			utils.HandleError(w, http.StatusNotFound, fmt.Sprintf("Menu item with ID %s not found", line.MenuItemID))
			return
		}

		var resolved models.OrderItem
		query, args, err := QB.Select("id AS menu_item_id", "title", "price", "image_url").
			From("menu").
			Where(squirrel.Eq{"id": menuID}).
			ToSql()
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
			logger.Errorw("build resolve menu item", "error", err)
			return
		}
		if err := tx.QueryRowx(query, args...).StructScan(&resolved); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.HandleError(w, http.StatusNotFound, fmt.Sprintf("Menu item with ID %s not found", line.MenuItemID))
				return
			}
			utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
			logger.Errorw("resolve menu item", "error", utils.ErrorWithTrace(err, err.Error()))
			return
		}

		resolved.OrderID = order.ID
		resolved.Quantity = line.Quantity
		order.MenuItems = append(order.MenuItems, resolved)
	}

	query, args, err := QB.Insert("orders").
		Columns(orderColumns...).
		Values(order.ID, order.UserID, order.OrderID, order.Name, order.Email,
			order.ShippingAddress, order.City, order.Phone, order.Status,
			order.TotalPrice, order.PaymentStatus, order.DateOrdered,
			order.Branch, order.SpecialNotes, order.CreatedAt, order.UpdatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("build insert order", "error", err)
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Order ID already exists!")
			return
		}
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "User not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("insert order", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	itemInsert := QB.Insert("order_items").Columns("order_id", "menu_item_id", "quantity")
	for _, item := range order.MenuItems {
		itemInsert = itemInsert.Values(item.OrderID, item.MenuItemID, item.Quantity)
	}
	query, args, err = itemInsert.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("build insert order items", "error", err)
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("insert order items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create order")
		logger.Errorw("commit order tx", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	reports.Invalidate(r.Context(), reportCacheKeys...)

	if err := mail.SendOrderReceived(order.Email, orderMailDetails(order)); err != nil {
		logger.Errorw("send order received email", "order", order.OrderID, "error", err)
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// orderSort maps the caller-facing sortBy/sortOrder pair to a safe ORDER BY
// clause. Unknown fields fall back to the newest-first default.
func orderSort(sortBy, sortOrder string) string {
	columns := map[string]string{
		"dateOrdered": "date_ordered",
		"createdAt":   "created_at",
		"totalPrice":  "total_price",
		"status":      "status",
		"name":        "name",
	}
	column, ok := columns[sortBy]
	if !ok {
		column = "date_ordered"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}

func attachOrderItems(orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
	}

	query, args, err := QB.Select("oi.order_id", "oi.menu_item_id", "oi.quantity",
		"m.title", "m.price", "m.image_url").
		From("order_items oi").
		Join("menu m ON m.id = oi.menu_item_id").
		Where(squirrel.Eq{"oi.order_id": ids}).
		ToSql()
	if err != nil {
		return err
	}

	items := []models.OrderItem{}
	if err := db.Select(&items, query, args...); err != nil {
		return err
	}

	byOrder := make(map[uuid.UUID][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].MenuItems = byOrder[orders[i].ID]
		if orders[i].MenuItems == nil {
			orders[i].MenuItems = []models.OrderItem{}
		}
	}
	return nil
}

func GetOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	q := r.URL.Query()

	builder := QB.Select(orderColumns...).From("orders")
	if status := q.Get("status"); status != "" {
		builder = builder.Where(squirrel.Eq{"status": status})
	}
	if branch := q.Get("branch"); branch != "" {
		builder = builder.Where(squirrel.Eq{"branch": branch})
	}
	if user := q.Get("user"); user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			utils.HandleError(w, http.StatusBadRequest, "Invalid user id")
			return
		}
		builder = builder.Where(squirrel.Eq{"user_id": userID})
	}
	builder = builder.OrderBy(orderSort(q.Get("sortBy"), q.Get("sortOrder"))).
		Limit(limit).Offset(offset)

	query, args, err := builder.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		logger.Errorw("build select orders", "error", err)
		return
	}

	orders := []models.Order{}
	if err := db.Select(&orders, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		logger.Errorw("select orders", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if err := attachOrderItems(orders); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		logger.Errorw("attach order items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

// transitionOrder advances an order's status and emails the customer. The
// status update commits before the send; a failed email surfaces as a 500
// without reverting the transition (at-least-once, never exactly-once).
func transitionOrder(w http.ResponseWriter, r *http.Request, id, status, successMessage string,
	notify func(to string, details mailer.OrderDetails) error) {

	query, args, err := QB.Update("orders").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(orderColumns)).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order")
		logger.Errorw("build update order status", "error", err)
		return
	}

	var order models.Order
	if err := db.QueryRowx(query, args...).StructScan(&order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order")
		logger.Errorw("update order status", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	orders := []models.Order{order}
	if err := attachOrderItems(orders); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update order")
		logger.Errorw("attach order items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	order = orders[0]

	reports.Invalidate(r.Context(), reportCacheKeys...)

	if err := notify(order.Email, orderMailDetails(order)); err != nil {
		logger.Errorw("send order status email", "order", order.OrderID, "status", status, "error", err)
		utils.HandleError(w, http.StatusInternalServerError, "Failed to send notification email")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": successMessage,
		"order":   order,
	})
}

func MarkOrderAsReady(w http.ResponseWriter, r *http.Request) {
	transitionOrder(w, r, r.PathValue("id"), "Ready",
		"Order marked as ready.", mail.SendOrderReady)
}

func MarkOrderAsDelivered(w http.ResponseWriter, r *http.Request) {
	transitionOrder(w, r, r.PathValue("id"), "Delivered",
		"Order marked as delivered.", mail.SendOrderDelivered)
}

// OrderQRCode renders a QR code pointing at the public tracking page for the
// order, for printing on receipts.
func OrderQRCode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var orderRef string
	query, args, err := QB.Select("order_id").From("orders").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch order")
		logger.Errorw("build select order ref", "error", err)
		return
	}
	if err := db.Get(&orderRef, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch order")
		logger.Errorw("select order ref", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	base := os.Getenv("TRACKING_BASE_URL")
	if base == "" {
		base = "http://localhost:8000/track"
	}
	png, err := qrcode.Encode(fmt.Sprintf("%s/%s", base, orderRef), qrcode.Medium, 256)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate QR code")
		logger.Errorw("encode order qr", "order", orderRef, "error", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
