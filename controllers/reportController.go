package controllers

import (
	"net/http"
	"strconv"
	"time"

	"serendib/models"
	"serendib/utils"

	"github.com/google/uuid"
)

type revenueBucket struct {
	Bucket  string  `json:"date" db:"bucket"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

type statusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

type topMenuItem struct {
	MenuItemID uuid.UUID `json:"menuItemId" db:"menu_item_id"`
	Title      string    `json:"title" db:"title"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	Quantity   int       `json:"totalQuantity" db:"total_quantity"`
}

type dashboardData struct {
	RevenueByDay      []revenueBucket `json:"revenueByDay"`
	OrdersByStatus    []statusCount   `json:"ordersByStatus"`
	TotalRevenue      float64         `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue float64         `json:"averageOrderValue"`
}

// averageOrderValue is defined as 0 for an empty order history rather than
// NaN from a zero division.
func averageOrderValue(totalRevenue float64, totalOrders int) float64 {
	if totalOrders == 0 {
		return 0
	}
	return totalRevenue / float64(totalOrders)
}

// salesWindow maps a window key to its start instant and bucket granularity.
// Daily windows bucket revenue per day, the longer ones per month. The zero
// start time means all-time.
func salesWindow(key string, now time.Time) (start time.Time, monthly bool) {
	switch key {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), false
	case "last7Days":
		return now.AddDate(0, 0, -7), false
	case "last30Days":
		return now.AddDate(0, 0, -30), false
	case "last6Months":
		return now.AddDate(0, -6, 0), true
	case "lastYear":
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, true
	}
}

func limitParam(r *http.Request, fallback uint64) uint64 {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func loadDashboardData() (*dashboardData, error) {
	data := &dashboardData{
		RevenueByDay:   []revenueBucket{},
		OrdersByStatus: []statusCount{},
	}

	err := db.Select(&data.RevenueByDay, `
		SELECT to_char(date_ordered, 'YYYY-MM-DD') AS bucket,
		       SUM(total_price) AS revenue
		FROM orders
		GROUP BY bucket
		ORDER BY bucket ASC`)
	if err != nil {
		return nil, err
	}

	err = db.Select(&data.OrdersByStatus, `
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY status ASC`)
	if err != nil {
		return nil, err
	}

	var totals struct {
		Revenue float64 `db:"revenue"`
		Count   int     `db:"count"`
	}
	err = db.Get(&totals, `
		SELECT COALESCE(SUM(total_price), 0) AS revenue, COUNT(*) AS count
		FROM orders`)
	if err != nil {
		return nil, err
	}

	data.TotalRevenue = totals.Revenue
	data.TotalOrders = totals.Count
	data.AverageOrderValue = averageOrderValue(totals.Revenue, totals.Count)
	return data, nil
}

func GetDashboardData(w http.ResponseWriter, r *http.Request) {
	var data dashboardData
	if reports.GetJSON(r.Context(), "reports:dashboard", &data) {
		utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"dashboard": data,
		})
		return
	}

	loaded, err := loadDashboardData()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		logger.Errorw("load dashboard data", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	reports.SetJSON(r.Context(), "reports:dashboard", loaded)

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"dashboard": loaded,
	})
}

// GetTopMenuItems ranks menu items by total quantity sold across all orders.
// Ties break on menu id ascending so the ranking is deterministic.
func GetTopMenuItems(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 5)

	cacheable := limit == 5
	items := []topMenuItem{}
	if cacheable && reports.GetJSON(r.Context(), "reports:top-menu-items", &items) {
		utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"topItems": items,
		})
		return
	}

	err := db.Select(&items, `
		SELECT oi.menu_item_id, m.title, m.image_url,
		       SUM(oi.quantity) AS total_quantity
		FROM order_items oi
		JOIN menu m ON m.id = oi.menu_item_id
		GROUP BY oi.menu_item_id, m.title, m.image_url
		ORDER BY total_quantity DESC, oi.menu_item_id ASC
		LIMIT $1`, limit)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch top menu items")
		logger.Errorw("select top menu items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if cacheable {
		reports.SetJSON(r.Context(), "reports:top-menu-items", items)
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"topItems": items,
	})
}

func GetSalesPerformance(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	start, monthly := salesWindow(window, time.Now())

	format := "YYYY-MM-DD"
	if monthly {
		format = "YYYY-MM"
	}

	buckets := []revenueBucket{}
	var err error
	if start.IsZero() {
		err = db.Select(&buckets, `
			SELECT to_char(date_ordered, `+"'"+format+"'"+`) AS bucket,
			       SUM(total_price) AS revenue
			FROM orders
			GROUP BY bucket
			ORDER BY bucket ASC`)
	} else {
		err = db.Select(&buckets, `
			SELECT to_char(date_ordered, `+"'"+format+"'"+`) AS bucket,
			       SUM(total_price) AS revenue
			FROM orders
			WHERE date_ordered >= $1
			GROUP BY bucket
			ORDER BY bucket ASC`, start)
	}
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch sales performance")
		logger.Errorw("select sales performance", "window", window, "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"window":  window,
		"sales":   buckets,
	})
}

func GetRecentOrders(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 5)

	query, args, err := QB.Select(orderColumns...).
		From("orders").
		OrderBy("date_ordered DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch recent orders")
		logger.Errorw("build select recent orders", "error", err)
		return
	}

	orders := []models.Order{}
	if err := db.Select(&orders, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch recent orders")
		logger.Errorw("select recent orders", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if err := attachOrderItems(orders); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch recent orders")
		logger.Errorw("attach order items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}

func GetUserActivity(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -30)

	var activity struct {
		New    int `json:"newUsers" db:"new_users"`
		Active int `json:"activeUsers" db:"active_users"`
	}
	err := db.Get(&activity, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1) AS new_users,
			COUNT(*) FILTER (WHERE last_login >= $1) AS active_users
		FROM users`, since)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch user activity")
		logger.Errorw("select user activity", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"newUsers":    activity.New,
		"activeUsers": activity.Active,
	})
}

type salesSummaryEntry struct {
	Orders  int     `json:"orders" db:"orders"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

func loadSalesSummary(now time.Time) (map[string]salesSummaryEntry, error) {
	windows := map[string]time.Time{
		"today":      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		"last7Days":  now.AddDate(0, 0, -7),
		"last30Days": now.AddDate(0, 0, -30),
	}

	summary := make(map[string]salesSummaryEntry, len(windows))
	for name, start := range windows {
		var entry salesSummaryEntry
		err := db.Get(&entry, `
			SELECT COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue
			FROM orders
			WHERE date_ordered >= $1`, start)
		if err != nil {
			return nil, err
		}
		summary[name] = entry
	}
	return summary, nil
}

func GetSalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := loadSalesSummary(time.Now())
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch sales summary")
		logger.Errorw("load sales summary", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

// GenerateFullReport bundles the individual report queries into one payload
// for export from the admin dashboard.
func GenerateFullReport(w http.ResponseWriter, r *http.Request) {
	dashboard, err := loadDashboardData()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate report")
		logger.Errorw("load dashboard data", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	topItems := []topMenuItem{}
	err = db.Select(&topItems, `
		SELECT oi.menu_item_id, m.title, m.image_url,
		       SUM(oi.quantity) AS total_quantity
		FROM order_items oi
		JOIN menu m ON m.id = oi.menu_item_id
		GROUP BY oi.menu_item_id, m.title, m.image_url
		ORDER BY total_quantity DESC, oi.menu_item_id ASC
		LIMIT 5`)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate report")
		logger.Errorw("select top menu items", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	summary, err := loadSalesSummary(time.Now())
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate report")
		logger.Errorw("load sales summary", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	since := time.Now().AddDate(0, 0, -30)
	var activity struct {
		New    int `json:"newUsers" db:"new_users"`
		Active int `json:"activeUsers" db:"active_users"`
	}
	err = db.Get(&activity, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1) AS new_users,
			COUNT(*) FILTER (WHERE last_login >= $1) AS active_users
		FROM users`, since)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate report")
		logger.Errorw("select user activity", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"generatedAt":  time.Now(),
		"dashboard":    dashboard,
		"topItems":     topItems,
		"salesSummary": summary,
		"userActivity": activity,
	})
}
