package login

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// handleLogout ends the session. Signing out without a session is not an error.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.logger.Info("user signed out", zap.String("user_id", u.ID))
	}
	h.sessionMgr.DestroySession(w, r)
	jsonutil.NoContent(w)
}
