package handler

import "net/http"

// handleListBackups handles GET /admin/backups.
func (h *Handler) handleListBackups(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"backups": h.db.Backups(r.Context()),
	})
}

// handleCreateBackup handles POST /admin/backups.
func (h *Handler) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	var req BackupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Time == nil {
		h.writeError(w, r, http.StatusBadRequest, CodeMissingTime, "time is required", "")
		return
	}

	n := h.db.Backup(r.Context(), *req.Time)
	h.writeJSON(w, r, http.StatusCreated, BackupResponse{Time: *req.Time, Records: n})
}

// handleRestore handles POST /admin/restore.
func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.CurrentTime == nil || req.RestoreTime == nil {
		h.writeError(w, r, http.StatusBadRequest, CodeMissingTime, "current_time and restore_time are required", "")
		return
	}

	info, err := h.db.Restore(r.Context(), *req.CurrentTime, *req.RestoreTime)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, RestoreResponse{
		BackupTime: info.Time,
		Records:    info.Records,
		Fields:     info.Fields,
	})
}

// handleStats handles GET /admin/stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.db.Stats(r.Context()))
}
