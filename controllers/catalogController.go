package controllers

import (
	"database/sql"
	"errors"
	"net/http"

	"serendib/models"
	"serendib/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var menuColumns = []string{"id", "title", "description", "image_url", "price", "category_id", "offers"}

func AddCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		utils.HandleError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category := models.Category{ID: uuid.New(), Name: input.Name}
	query, args, err := QB.Insert("categories").
		Columns("id", "name").
		Values(category.ID, category.Name).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create category")
		logger.Errorw("build insert category", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Category name already exists!")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create category")
		logger.Errorw("insert category", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

func GetCategories(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("id", "name").From("categories").OrderBy("name ASC").ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch categories")
		logger.Errorw("build select categories", "error", err)
		return
	}

	categories := []models.Category{}
	if err := db.Select(&categories, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch categories")
		logger.Errorw("select categories", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var input struct {
		Name string `json:"name"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		utils.HandleError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	query, args, err := QB.Update("categories").
		Set("name", input.Name).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update category")
		logger.Errorw("build update category", "error", err)
		return
	}

	var category models.Category
	if err := db.QueryRowx(query, args...).StructScan(&category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.HandleError(w, http.StatusNotFound, "Category not found")
			return
		}
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Category name already exists!")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update category")
		logger.Errorw("update category", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"category": category,
	})
}

// DeleteCategory removes a category. Categories still referenced by menu
// items are protected by a RESTRICT foreign key and refuse to delete.
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete category")
		logger.Errorw("build delete category", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Category is in use by menu items")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete category")
		logger.Errorw("delete category", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category deleted",
	})
}

func GetCategoryCounts(w http.ResponseWriter, r *http.Request) {
	type categoryCount struct {
		ID    uuid.UUID `json:"id" db:"id"`
		Name  string    `json:"name" db:"name"`
		Count int       `json:"count" db:"count"`
	}

	counts := []categoryCount{}
	err := db.Select(&counts, `
		SELECT c.id, c.name, COUNT(m.id) AS count
		FROM categories c
		LEFT JOIN menu m ON m.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name ASC`)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch category counts")
		logger.Errorw("select category counts", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"counts":  counts,
	})
}

func AddMenu(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ImageURL    string  `json:"imageUrl"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Offers      string  `json:"offers"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Title == "" || input.Description == "" || input.ImageURL == "" || input.Category == "" {
		utils.HandleError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if input.Price < 0 {
		utils.HandleError(w, http.StatusBadRequest, "Price must not be negative")
		return
	}
	categoryID, err := uuid.Parse(input.Category)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	item := models.MenuItem{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		CategoryID:  categoryID,
		Offers:      input.Offers,
	}

	query, args, err := QB.Insert("menu").
		Columns(menuColumns...).
		Values(item.ID, item.Title, item.Description, item.ImageURL, item.Price, item.CategoryID, item.Offers).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create menu item")
		logger.Errorw("build insert menu", "error", err)
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Menu title already exists!")
			return
		}
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Category not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create menu item")
		logger.Errorw("insert menu", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Menu Item Added Successfully",
		"menu":    item,
	})
}

func selectMenu() squirrel.SelectBuilder {
	return QB.Select(
		"m.id", "m.title", "m.description", "m.image_url", "m.price",
		"m.category_id", "m.offers", "c.name AS category_name").
		From("menu m").
		Join("categories c ON c.id = m.category_id")
}

func GetMenu(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	query, args, err := selectMenu().OrderBy("m.title ASC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch menu")
		logger.Errorw("build select menu", "error", err)
		return
	}

	items := []models.MenuItem{}
	if err := db.Select(&items, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch menu")
		logger.Errorw("select menu", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"menu":    items,
	})
}

func GetMenuByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.PathValue("categoryId"))
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid category id")
		return
	}
	limit, offset := pageParams(r)

	query, args, err := selectMenu().
		Where(squirrel.Eq{"m.category_id": categoryID}).
		OrderBy("m.title ASC").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch menu")
		logger.Errorw("build select menu by category", "error", err)
		return
	}

	items := []models.MenuItem{}
	if err := db.Select(&items, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch menu")
		logger.Errorw("select menu by category", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"menu":    items,
	})
}

func UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ImageURL    string  `json:"imageUrl"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Offers      string  `json:"offers"`
	}
	if err := utils.DecodeJSONBody(r, &input); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Price < 0 {
		utils.HandleError(w, http.StatusBadRequest, "Price must not be negative")
		return
	}
	categoryID, err := uuid.Parse(input.Category)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	query, args, err := QB.Update("menu").
		Set("title", input.Title).
		Set("description", input.Description).
		Set("image_url", input.ImageURL).
		Set("price", input.Price).
		Set("category_id", categoryID).
		Set("offers", input.Offers).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update menu item")
		logger.Errorw("build update menu", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Menu title already exists!")
			return
		}
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Category not found")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update menu item")
		logger.Errorw("update menu", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Menu Item not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Menu Item Updated",
	})
}

func DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	query, args, err := QB.Delete("menu").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete menu item")
		logger.Errorw("build delete menu", "error", err)
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			utils.HandleError(w, http.StatusBadRequest, "Menu item is referenced by existing orders")
			return
		}
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete menu item")
		logger.Errorw("delete menu", "error", utils.ErrorWithTrace(err, err.Error()))
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		utils.HandleError(w, http.StatusNotFound, "Menu Item not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Menu Item Deleted",
	})
}
