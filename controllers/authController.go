package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"serendib/models"
	"serendib/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

var userColumns = []string{
	"id", "username", "email", "password", "is_admin", "is_staff",
	"profile_picture", "last_login", "created_at", "updated_at",
}

func insertUser(user models.User) error {
	query, args, err := QB.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Email, user.Password, user.IsAdmin,
			user.IsStaff, user.ProfilePicture, user.LastLogin, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(query, args...)
	return err
}

func createAccount(w http.ResponseWriter, r *http.Request, isStaff bool, successMessage string) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Username == "" || input.Email == "" || input.Password == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to hash password")
		logger.Errorw("hash password", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	now := time.Now()
	user := models.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashedPassword,
		IsStaff:   isStaff,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := insertUser(user); err != nil {
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create user")
		logger.Errorw("insert user", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": successMessage,
	})
}

func Signup(w http.ResponseWriter, r *http.Request) {
	createAccount(w, r, false, "User created successfully")
}

func CreateStaffAccount(w http.ResponseWriter, r *http.Request) {
	createAccount(w, r, true, "Staff account created successfully")
}

// issueSession stamps last_login, signs a session token and sets it as an
// httpOnly cookie.
func issueSession(w http.ResponseWriter, user *models.User) error {
	now := time.Now()
	user.LastLogin = &now

	query, args, err := QB.Update("users").
		Set("last_login", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := db.Exec(query, args...); err != nil {
		return err
	}

	token, exp, err := utils.GenerateToken(user.ID, user.IsAdmin, user.IsStaff)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
	})
	return nil
}

func Signin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	query, args, err := QB.Select(userColumns...).From("users").Where(squirrel.Eq{"email": input.Email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("build select user", "error", err)
		return
	}

	var user models.User
	if err := db.Get(&user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("select user", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	if err := utils.CheckPassword(user.Password, input.Password); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	if err := issueSession(w, &user); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("issue session", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// GoogleAuth signs in a federated user, creating the account on first login
// with a random password and a generated username.
func GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		GooglePhotoURL string `json:"googlePhotoUrl"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Email == "" {
		utils.HandleError(w, http.StatusBadRequest, "Email is required")
		return
	}

	query, args, err := QB.Select(userColumns...).From("users").Where(squirrel.Eq{"email": input.Email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("build select user", "error", err)
		return
	}

	var user models.User
	err = db.Get(&user, query, args...)
	switch {
	case err == nil:
		// Existing account, fall through to session issue.
	case errors.Is(err, sql.ErrNoRows):
		generatedPassword := fmt.Sprintf("%08x", rand.Uint32())
		hashedPassword, hashErr := utils.HashPassword(generatedPassword)
		if hashErr != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
			logger.Errorw("hash generated password", "error", hashErr)
			return
		}

		now := time.Now()
		user = models.User{
			ID:             uuid.New(),
			Username:       strings.ToLower(strings.ReplaceAll(input.Name, " ", "")) + fmt.Sprintf("%04d", rand.Intn(10000)),
			Email:          input.Email,
			Password:       hashedPassword,
			ProfilePicture: input.GooglePhotoURL,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := insertUser(user); err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
			logger.Errorw("insert federated user", "error", utils.ErrorWithTrace(err, err.Error()))
			return
		}
	default:
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("select user", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	if err := issueSession(w, &user); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to sign in")
		logger.Errorw("issue session", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User has been Sign Out",
	})
}

func GetAllStaff(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"is_staff": true}).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch staff accounts")
		logger.Errorw("build select staff", "error", err)
		return
	}

	staff := []models.User{}
	if err := db.Select(&staff, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch staff accounts")
		logger.Errorw("select staff", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"staff":   staff,
	})
}

func UpdateStaffAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		IsAdmin  *bool  `json:"isAdmin"`
		IsStaff  *bool  `json:"isStaff"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	builder := QB.Update("users").Set("updated_at", time.Now())
	if input.Username != "" {
		builder = builder.Set("username", input.Username)
	}
	if input.Email != "" {
		builder = builder.Set("email", input.Email)
	}
	if input.IsAdmin != nil {
		builder = builder.Set("is_admin", *input.IsAdmin)
	}
	if input.IsStaff != nil {
		builder = builder.Set("is_staff", *input.IsStaff)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update staff account")
		logger.Errorw("build update staff", "error", err)
		return
	}

	var user models.User
	if err := db.QueryRowx(query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Staff account not found")
			return
		}
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update staff account")
		logger.Errorw("update staff", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func DeleteStaffAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("users").
		Where(squirrel.Eq{"id": id, "is_staff": true}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete staff account")
		logger.Errorw("build delete staff", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Staff account has existing orders")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete staff account")
		logger.Errorw("delete staff", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Staff account not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Staff account deleted",
	})
}
