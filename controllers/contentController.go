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
)

func AddImage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.ImageURL == "" {
		utils.HandleError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	image := models.GalleryImage{ID: uuid.New(), ImageURL: input.ImageURL}
	query, args, err := QB.Insert("gallery").
		Columns("id", "image_url").
		Values(image.ID, image.ImageURL).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add image")
		logger.Errorw("build insert image", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add image")
		logger.Errorw("insert image", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Image Added Successfully",
		"image":   image,
	})
}

// UploadImage accepts a multipart image, stores it under uploads/ and
// registers the resulting URL in the gallery.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // Limit to 10 MB
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	imgPath, err := utils.SaveImageFile(file, "gallery", handler.Filename)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to save image")
		logger.Errorw("save gallery image", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	// Convert backslashes to forward slashes for URI compatibility
	imgPath = strings.ReplaceAll(imgPath, "\\", "/")
	imageURL := fmt.Sprintf("/%s", imgPath)

	image := models.GalleryImage{ID: uuid.New(), ImageURL: imageURL}
	query, args, err := QB.Insert("gallery").
		Columns("id", "image_url").
		Values(image.ID, image.ImageURL).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add image")
		logger.Errorw("build insert uploaded image", "error", err)
		return
	}
	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add image")
		logger.Errorw("insert uploaded image", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Image Added Successfully",
		"image":   image,
	})
}

func GetImages(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("id", "image_url").From("gallery").OrderBy("id ASC").ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch images")
		logger.Errorw("build select images", "error", err)
		return
	}

	images := []models.GalleryImage{}
	if err := db.Select(&images, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch images")
		logger.Errorw("select images", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"images":  images,
	})
}

func DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("gallery").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING image_url").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete image")
		logger.Errorw("build delete image", "error", err)
		return
	}

	var imageURL string
	if err := db.Get(&imageURL, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Image not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete image")
		logger.Errorw("delete image", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	// Locally uploaded files are removed from disk; external URLs are not ours.
	if strings.HasPrefix(imageURL, "/uploads/") {
		if err := utils.DeleteImageFile(strings.TrimPrefix(imageURL, "/")); err != nil {
			logger.Warnw("remove image file", "path", imageURL, "error", err)
		}
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Image Deleted",
	})
}

func AddOffer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		ButtonText  string `json:"buttonText"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Title == "" || input.Description == "" || input.ImageURL == "" || input.ButtonText == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	offer := models.Offer{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		ButtonText:  input.ButtonText,
		CreatedAt:   time.Now(),
	}

	query, args, err := QB.Insert("offers").
		Columns("id", "title", "description", "image_url", "button_text", "created_at").
		Values(offer.ID, offer.Title, offer.Description, offer.ImageURL, offer.ButtonText, offer.CreatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create offer")
		logger.Errorw("build insert offer", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create offer")
		logger.Errorw("insert offer", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Offer Added Successfully",
		"offer":   offer,
	})
}

func GetOffers(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("id", "title", "description", "image_url", "button_text", "created_at").
		From("offers").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch offers")
		logger.Errorw("build select offers", "error", err)
		return
	}

	offers := []models.Offer{}
	if err := db.Select(&offers, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch offers")
		logger.Errorw("select offers", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"offers":  offers,
	})
}

func UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		ButtonText  string `json:"buttonText"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	query, args, err := QB.Update("offers").
		Set("title", input.Title).
		Set("description", input.Description).
		Set("image_url", input.ImageURL).
		Set("button_text", input.ButtonText).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update offer")
		logger.Errorw("build update offer", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update offer")
		logger.Errorw("update offer", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Offer not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Offer Updated",
	})
}

func DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("offers").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete offer")
		logger.Errorw("build delete offer", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete offer")
		logger.Errorw("delete offer", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Offer not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Offer Deleted",
	})
}
