package handler

import (
	"net/http"
	"strconv"

	"code-redeem/internal/model"
	"code-redeem/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RedemptionHandler handles the public redemption endpoints.
type RedemptionHandler struct {
	service service.RedemptionService
	logger  zerolog.Logger
}

// NewRedemptionHandler creates a new redemption handler.
func NewRedemptionHandler(service service.RedemptionService, logger zerolog.Logger) *RedemptionHandler {
	return &RedemptionHandler{
		service: service,
		logger:  logger.With().Str("handler", "redemption").Logger(),
	}
}

// SingleUse handles GET /code-single/{code} requests. The body is
// {"message":"True"} when the code was consumed and {"message":"False"} otherwise.
func (h *RedemptionHandler) SingleUse(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ok, err := h.service.RedeemSingleUse(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if ok {
		writeMessage(w, http.StatusOK, "True")
		return
	}
	writeMessage(w, http.StatusOK, "False")
}

// Timed handles GET /code-multi/{code}/{userId} requests.
func (h *RedemptionHandler) Timed(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeServiceError(w, r, model.ErrInvalidUserID, h.logger)
		return
	}

	status, err := h.service.RedeemTimed(r.Context(), code, userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, status.String())
}
