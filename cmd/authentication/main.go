// This is a **mock authentication service**, designed to provide JWT tokens
// for the vacation manager, simulating the external identity provider.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/auth"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler generates a JWT carrying the caller id and role and returns
// it in a JSON response. The id and role come from query parameters so any
// caller identity can be simulated.
func tokenHandler(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultSecret
	}

	id := uuid.New()
	if sub := r.URL.Query().Get("sub"); sub != "" {
		parsed, err := uuid.Parse(sub)
		if err != nil {
			http.Error(w, "invalid sub", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	role := models.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = models.RoleCollaborator
	}
	if !role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	token, err := auth.GenerateToken(models.Identity{ID: id, Role: role}, secret, 24*time.Hour)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	resp := TokenResponse{Token: token}
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		http.Error(w, "Failed to encode token", http.StatusInternalServerError)
	}
}

func main() {
	port := os.Getenv("AUTH_PORT")
	if port == "" {
		port = defaultPort
	}
	http.HandleFunc("/token", tokenHandler)

	log.Printf("Authentication service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}
