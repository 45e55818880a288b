package handlers

import (
	"encoding/json"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (req *categoryRequest) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 50 {
		return "name must be between 1 and 50 characters", false
	}
	if req.Color != nil && !util.ValidateHexColor(*req.Color) {
		return "color must be a hex value like #aabbcc", false
	}
	return "", true
}

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg, ok := req.validate(); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		category := &models.Category{
			UserID: userID,
			Name:   req.Name,
			Color:  req.Color,
			Icon:   req.Icon,
		}
		created, err := db.CreateCategory(r.Context(), pool, category)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "category with this name already exists", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetCategoryByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		category, err := db.GetCategoryByID(r.Context(), pool, userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Category id %d not found for user %d: %v", categoryID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(category)
	}
}

func GetAllCategoriesForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		categories, err := db.GetAllCategoriesForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg, ok := req.validate(); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		category := &models.Category{
			ID:     categoryID,
			UserID: userID,
			Name:   req.Name,
			Color:  req.Color,
			Icon:   req.Icon,
		}
		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Updated category id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteCategory(r.Context(), pool, userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to delete category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}
