package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"serendib/mailer"
	"serendib/models"
	"serendib/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var reservationColumns = []string{
	"id", "name", "email", "phone", "date", "time", "people",
	"message", "status", "branch", "created_at", "updated_at",
}

func AddReservation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Date    string `json:"date"`
		Time    string `json:"time"`
		People  int    `json:"people"`
		Message string `json:"message"`
		Branch  string `json:"branch"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" || input.Phone == "" || input.Date == "" || input.Time == "" || input.Branch == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if input.People < 1 {
		utils.HandleError(w, http.StatusBadRequest, "Number of people must be at least 1")
		return
	}
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	now := time.Now()
	reservation := models.Reservation{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Date:      date,
		Time:      input.Time,
		People:    input.People,
		Message:   input.Message,
		Status:    "pending",
		Branch:    input.Branch,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args, err := QB.Insert("reservations").
		Columns(reservationColumns...).
		Values(reservation.ID, reservation.Name, reservation.Email, reservation.Phone,
			reservation.Date, reservation.Time, reservation.People, reservation.Message,
			reservation.Status, reservation.Branch, reservation.CreatedAt, reservation.UpdatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create reservation")
		logger.Errorw("build insert reservation", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create reservation")
		logger.Errorw("insert reservation", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Reservation placed successfully!",
		"reservation": reservation,
	})
}

func GetReservations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	query, args, err := QB.Select(reservationColumns...).
		From("reservations").
		OrderBy("created_at DESC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch reservations")
		logger.Errorw("build select reservations", "error", err)
		return
	}

	reservations := []models.Reservation{}
	if err := db.Select(&reservations, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch reservations")
		logger.Errorw("select reservations", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"reservations": reservations,
	})
}

// transitionReservation commits the status change first; a failed email never
// rolls it back, it only degrades the response code.
func transitionReservation(w http.ResponseWriter, id, status, successMessage string,
	notify func(to string, details mailer.ReservationDetails) error) {

	query, args, err := QB.Update("reservations").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(reservationColumns)).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update reservation")
		logger.Errorw("build update reservation", "error", err)
		return
	}

	var reservation models.Reservation
	if err := db.QueryRowx(query, args...).StructScan(&reservation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Reservation not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update reservation")
		logger.Errorw("update reservation", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	details := mailer.ReservationDetails{
		Date:   reservation.Date.Format("2006-01-02"),
		Time:   reservation.Time,
		People: reservation.People,
		Branch: reservation.Branch,
	}
	if err := notify(reservation.Email, details); err != nil {
		logger.Errorw("send reservation email", "reservation", reservation.ID, "error", err)
		utils.HandleError(w, http.StatusInternalServerError, "Failed to send notification email")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     successMessage,
		"reservation": reservation,
	})
}

func ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	transitionReservation(w, r.PathValue("id"), "confirmed",
		"Reservation confirmed successfully!", mail.SendReservationConfirmed)
}

func RejectReservation(w http.ResponseWriter, r *http.Request) {
	transitionReservation(w, r.PathValue("id"), "rejected",
		"Reservation rejected successfully and email sent!", mail.SendReservationRejected)
}

var queryColumns = []string{"id", "name", "email", "message", "status", "created_at", "updated_at"}

func AddQuery(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" || input.Message == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	now := time.Now()
	q := models.Query{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		Status:    "pending",
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args, err := QB.Insert("queries").
		Columns(queryColumns...).
		Values(q.ID, q.Name, q.Email, q.Message, q.Status, q.CreatedAt, q.UpdatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Errorw("build insert query", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Errorw("insert query", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Query submitted successfully!",
		"query":   q,
	})
}

func GetQueries(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	query, args, err := QB.Select(queryColumns...).
		From("queries").
		OrderBy("created_at DESC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch queries")
		logger.Errorw("build select queries", "error", err)
		return
	}

	queries := []models.Query{}
	if err := db.Select(&queries, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch queries")
		logger.Errorw("select queries", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"queries": queries,
	})
}

func DeleteQuery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("queries").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete query")
		logger.Errorw("build delete query", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete query")
		logger.Errorw("delete query", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Query not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Query Deleted",
	})
}

// ReplyQuery marks a query answered and emails the reply text to the
// customer. The receiver address may be overridden in the body, falling back
// to the address the query was submitted with.
func ReplyQuery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var input struct {
		Message       string `json:"message"`
		ReceiverEmail string `json:"receiverEmail"`
		Status        string `json:"status"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Message == "" {
		utils.HandleError(w, http.StatusBadRequest, "Reply message is required")
		return
	}
	status := input.Status
	if status == "" {
		status = "replied"
	}

	query, args, err := QB.Update("queries").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(queryColumns)).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update query")
		logger.Errorw("build reply query", "error", err)
		return
	}

	var q models.Query
	if err := db.QueryRowx(query, args...).StructScan(&q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Query not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update query")
		logger.Errorw("reply query", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	to := input.ReceiverEmail
	if to == "" {
		to = q.Email
	}
	if err := mail.SendQueryReply(to, input.Message); err != nil {
		logger.Errorw("send query reply email", "query", q.ID, "error", err)
		utils.HandleError(w, http.StatusInternalServerError, "Failed to send notification email")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  q,
	})
}
