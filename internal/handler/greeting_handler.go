package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Welcome to the code redemption API"

// Root handles GET / requests.
func Root(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, WelcomeMessage)
}

// Hello handles GET /hello/{name} requests.
func Hello(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, fmt.Sprintf("Hello, %s!", chi.URLParam(r, "name")))
}
