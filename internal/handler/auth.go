package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/taskmate/internal/apperror"
	"github.com/sakif/taskmate/internal/auth"
	"github.com/sakif/taskmate/internal/model"
	"github.com/sakif/taskmate/internal/service"
)

const msgLoggedOut = "Logged out successfully"

// AuthHandler exposes registration, login, logout and the current session.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegisterCustomer → create a customer, set the session cookie
//   - HandleRegisterProvider → create a provider and profile, set the cookie
//   - HandleLogin            → check credentials, set the cookie
//   - HandleLogout           → clear the cookie
//   - HandleMe               → return the signed-in account
//
// The handler owns HTTP concerns only: decoding, cookies, status codes. All
// rules live in service.AuthService.
type AuthHandler struct {
	svc     *service.AuthService
	cookies *auth.CookieManager
	logger  *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, cookies *auth.CookieManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies, logger: logger}
}

// Routes returns the auth router. requireAuth guards /me only.
func (h *AuthHandler) Routes(requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegisterCustomer)
	r.Post("/register/customer", h.HandleRegisterCustomer)
	r.Post("/register/provider", h.HandleRegisterProvider)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.With(requireAuth).Get("/me", h.HandleMe)

	return r
}

// userResponse wraps the account returned by register and login.
type userResponse struct {
	User any `json:"user"`
}

// providerUser is a provider account plus the id of its new profile.
type providerUser struct {
	*model.User
	ProviderID int64 `json:"providerId"`
}

// HandleRegisterCustomer creates a customer account.
//
// HTTP: POST /api/auth/register/customer (also POST /api/auth/register)
// REQUEST BODY: {"name": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterCustomerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.svc.RegisterCustomer(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.cookies.Set(w, res.Token)
	writeJSON(w, http.StatusCreated, userResponse{User: res.User})
}

// registerProviderRequest is the provider form as the frontend posts it:
// the category selects and the experience field arrive as strings.
type registerProviderRequest struct {
	Name                    string  `json:"name"`
	Email                   string  `json:"email"`
	Password                string  `json:"password"`
	ServiceCategory         number  `json:"serviceCategory"`
	ServiceSubCategory      number  `json:"serviceSubCategory"`
	YearsOfExperience       number  `json:"yearsOfExperience"`
	ServiceDescription      *string `json:"serviceDescription"`
	ServiceAddress          *string `json:"serviceAddress"`
	WorkingDays             *string `json:"workingDays"`
	PreferredTime           *string `json:"preferredTime"`
	ServiceCharge           *string `json:"serviceCharge"`
	ConsultationIncluded    bool    `json:"consultationIncluded"`
	FollowupSupportIncluded bool    `json:"followupSupportIncluded"`
	WarrantyIncluded        bool    `json:"warrantyIncluded"`
	ContactNumber           *string `json:"contactNumber"`
}

func (req registerProviderRequest) input() service.RegisterProviderInput {
	return service.RegisterProviderInput{
		Name:                    req.Name,
		Email:                   req.Email,
		Password:                req.Password,
		ServiceCategory:         req.ServiceCategory.Int64(),
		ServiceSubCategory:      req.ServiceSubCategory.Int64(),
		YearsOfExperience:       req.YearsOfExperience.IntPtr(),
		ServiceDescription:      optString(req.ServiceDescription),
		ServiceAddress:          optString(req.ServiceAddress),
		WorkingDays:             optString(req.WorkingDays),
		PreferredTime:           optString(req.PreferredTime),
		ServiceCharge:           optString(req.ServiceCharge),
		ConsultationIncluded:    req.ConsultationIncluded,
		FollowupSupportIncluded: req.FollowupSupportIncluded,
		WarrantyIncluded:        req.WarrantyIncluded,
		ContactNumber:           optString(req.ContactNumber),
	}
}

// HandleRegisterProvider creates a provider account and its profile.
//
// HTTP: POST /api/auth/register/provider
//
// The user and profile rows are written in one transaction; on any failure
// neither exists and no cookie is set.
func (h *AuthHandler) HandleRegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req registerProviderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.svc.RegisterProvider(r.Context(), req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.cookies.Set(w, res.Token)
	writeJSON(w, http.StatusCreated, userResponse{
		User: providerUser{User: res.User, ProviderID: res.Profile.ID},
	})
}

// HandleLogin authenticates by email and password.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.cookies.Set(w, res.Token)
	writeJSON(w, http.StatusOK, userResponse{User: res.User})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// Sessions are stateless: the token stays valid until it expires, but the
// browser no longer holds it. Logout never fails.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgLoggedOut})
}

// HandleMe returns the signed-in account. Providers also get their profile
// under "providerProfile".
//
// HTTP: GET /api/auth/me
// Auth: required (RequireAuth puts the user id in the context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated("Not authorized"))
		return
	}

	view, err := h.svc.CurrentSession(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
