package handlers

import (
	"encoding/json"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/util"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func GetUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		requestedUserID := chi.URLParam(r, "user_id")

		parsedUserID, err := strconv.Atoi(requestedUserID)
		if err != nil {
			log.Printf("ERROR: Failed to parse user_id from URL - user_id: %s: %v", requestedUserID, err)
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		if userID != parsedUserID {
			log.Printf("ERROR: Unauthorized user access attempt - Authenticated user: %d, Requested user: %d", userID, parsedUserID)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user - user_id: %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user for password change - user_id: %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Invalid current password attempt for user %d", userID)
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			log.Printf("ERROR: Password validation failed during change password - User: %d", userID)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		err = db.UpdateUserPassword(r.Context(), pool, userID, string(hashedPassword))
		if err != nil {
			log.Printf("ERROR: Failed to update user password - user_id: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User password changed - User: %d", userID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "password changed successfully",
		})
	}
}

func DeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)

		// Security: Only allow user to delete themselves
		var req struct {
			UserID int `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode delete user request body for user_id: %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.UserID != userID {
			log.Printf("ERROR: Forbidden delete attempt - Authenticated user: %d, Requested user: %d", userID, req.UserID)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		log.Printf("INFO: Deleting user %d and all associated data", userID)
		err := db.DeleteUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to delete user %d: %v", userID, err)
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User %d deleted successfully. Instructing client to remove JWT and redirect.", userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"message":  "user deleted",
			"redirect": "/register",
		})
	}
}
