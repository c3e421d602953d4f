// internal/app/features/login/login.go
package login

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/network"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides staff sign-in handlers.
type Handler struct {
	userStore  *userstore.Store
	sessionMgr *auth.SessionManager
	resolver   *network.Resolver
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new login Handler. The resolver only feeds the
// client address into sign-in logs; nil logs the connection's peer.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, resolver *network.Resolver, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		userStore:  userstore.New(db),
		sessionMgr: sessionMgr,
		resolver:   resolver,
		errLog:     errLog,
		logger:     logger,
	}
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Me describes the signed-in user.
type Me struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	// CSRFToken must be echoed in the X-CSRF-Token header on unsafe
	// session-authenticated requests. Empty when CSRF protection is off.
	CSRFToken string `json:"csrf_token,omitempty"`
}

// Routes returns the auth routes.
//
// When mounted at /api/auth:
//   - POST /login
//   - POST /logout
//   - GET  /me
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.With(h.sessionMgr.RequireSignedIn).Get("/me", h.handleMe)
	return r
}

// handleLogin checks an email and password and starts a session.
// Unknown emails, disabled accounts and wrong passwords all get the same 401.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in Credentials
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		jsonutil.BadRequest(w, "email and password are required")
		return
	}

	ip := h.resolver.ClientIP(r)
	user, err := h.userStore.GetByEmail(r.Context(), in.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.logger.Info("login failed: unknown email", zap.String("ip", ip))
			jsonutil.Unauthorized(w, "invalid credentials")
			return
		}
		h.errLog.Log(r, "database error during login lookup", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}

	if user.Status != models.StatusActive {
		h.logger.Info("login failed: account disabled",
			zap.String("user_id", user.ID.Hex()),
			zap.String("ip", ip))
		jsonutil.Unauthorized(w, "invalid credentials")
		return
	}
	if user.PasswordHash == "" || !authutil.CheckPassword(in.Password, user.PasswordHash) {
		h.logger.Info("login failed: wrong password",
			zap.String("user_id", user.ID.Hex()),
			zap.String("ip", ip))
		jsonutil.Unauthorized(w, "invalid credentials")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.FullName, user.Email, user.Role, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	h.logger.Info("user signed in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	jsonutil.OK(w, Me{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,

		CSRFToken: csrf.Token(r),
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	jsonutil.OK(w, Me{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CSRFToken: csrf.Token(r)})
}
