package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"code-redeem/internal/codefile"
	"code-redeem/internal/model"
	"code-redeem/internal/service"

	"github.com/rs/zerolog"
)

// AddCodeRequest is the body of POST /admin/single-codes.
type AddCodeRequest struct {
	Code string `json:"code"`
}

// ActivateCodeRequest is the body of POST /admin/timed-codes. ActivatedAt
// uses the YYYY-MM-DD HH:MM:SS layout and defaults to now.
type ActivateCodeRequest struct {
	Code        string `json:"code"`
	ActivatedAt string `json:"activatedAt,omitempty"`
}

// RewriteResponse is returned by GET /rewrite_db.
type RewriteResponse struct {
	Message string `json:"message"`
	*model.ImportReport
}

// AdminHandler handles code management endpoints.
type AdminHandler struct {
	redemptions service.RedemptionService
	imports     service.ImportService
	location    *time.Location
	logger      zerolog.Logger
}

// NewAdminHandler creates a new admin handler. loc is the zone of
// activation timestamps supplied without an offset.
func NewAdminHandler(
	redemptions service.RedemptionService,
	imports service.ImportService,
	loc *time.Location,
	logger zerolog.Logger,
) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		redemptions: redemptions,
		imports:     imports,
		location:    loc,
		logger:      logger.With().Str("handler", "admin").Logger(),
	}
}

// Rewrite handles GET /rewrite_db requests.
func (h *AdminHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	report, err := h.imports.Rewrite(r.Context())
	if err != nil {
		var storageErr *model.StorageError
		if errors.As(err, &storageErr) {
			writeServiceError(w, r, err, h.logger)
			return
		}

		h.logger.Error().Err(err).Msg("bulk import failed")
		message := "failed to load code files"
		if errors.Is(err, codefile.ErrNotFound) {
			message = "code file not found"
		}
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeImportFailed, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, RewriteResponse{
		Message:      "Database rewritten",
		ImportReport: report,
	})
}

// AddSingleUse handles POST /admin/single-codes requests.
func (h *AdminHandler) AddSingleUse(w http.ResponseWriter, r *http.Request) {
	var req AddCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.redemptions.AddSingleUse(r.Context(), req.Code); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.SingleUseCode{Code: strings.TrimSpace(req.Code)})
}

// ActivateTimed handles POST /admin/timed-codes requests.
func (h *AdminHandler) ActivateTimed(w http.ResponseWriter, r *http.Request) {
	var req ActivateCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	var activatedAt time.Time
	if req.ActivatedAt != "" {
		var err error
		activatedAt, err = codefile.ParseTimestamp(req.ActivatedAt, h.location)
		if err != nil {
			writeServiceError(w, r, err, h.logger)
			return
		}
	}

	if err := h.redemptions.ActivateTimed(r.Context(), req.Code, activatedAt); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"code":    strings.TrimSpace(req.Code),
		"message": "Code activated",
	})
}

// Stats handles GET /admin/stats requests.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.redemptions.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// decode reads a JSON body into dst and writes a 400 on failure.
func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return false
	}
	return true
}
