package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/metrics"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/service"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (s *Server) handleRegister(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeInvalidRequest(w)
			return
		}

		principal, err := s.svc.Register(r.Context(), kind, service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		httplog.LogEntry(r.Context()).Info("principal registered", "kind", kind, "id", principal.ID)
		writeJSON(w, http.StatusCreated, registerResponse{Message: "You are registered", ID: principal.ID})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (s *Server) handleLogin(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeInvalidRequest(w)
			return
		}

		result, err := s.svc.Login(r.Context(), kind, service.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			if appErr, ok := apperr.As(err); ok && appErr.HTTPStatus() == http.StatusForbidden {
				metrics.AuthFailure(string(kind), appErr.Code)
			}
			s.handleError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookie(kind),
			Value:    result.Token,
			Path:     "/",
			Expires:  result.Claims.ExpiresAt.Time,
			MaxAge:   int(s.tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: result.Token})
	}
}

func (s *Server) handleLogout(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context(), kind)
		if !ok {
			writeError(w, apperr.Unauthenticated(apperr.CodeMissingToken, kind.Title()+" token is required"))
			return
		}
		if err := s.revoker.Revoke(r.Context(), principal.TokenID, principal.ExpiresAt); err != nil {
			s.handleError(w, r, apperr.Internal(err))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookie(kind),
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
	}
}

type uploadRequest struct {
	Task   string `json:"task"`
	Admin  string `json:"admin"`
	UserID string `json:"userId"`
	User   string `json:"user"`
}

type assignmentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Admin     string    `json:"admin"`
	Task      string    `json:"task"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type assignmentEnvelope struct {
	Message    string             `json:"message"`
	Assignment assignmentResponse `json:"assignment"`
}

func mapAssignment(view service.AssignmentView) assignmentResponse {
	return assignmentResponse{
		ID:        view.ID,
		UserID:    view.UserID,
		Name:      view.Name,
		Admin:     view.AdminID,
		Task:      view.Task,
		Status:    string(view.Status),
		CreatedAt: view.CreatedAt,
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeInvalidRequest(w)
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = req.User
	}

	view, err := s.svc.Upload(r.Context(), UserIDFromContext(r.Context()), service.UploadInput{
		Task:    req.Task,
		AdminID: req.Admin,
		UserID:  userID,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	httplog.LogEntry(r.Context()).Info("assignment uploaded", "assignment_id", view.ID, "admin_id", view.AdminID)
	writeJSON(w, http.StatusCreated, assignmentEnvelope{
		Message:    "Assignment uploaded successfully",
		Assignment: mapAssignment(view),
	})
}

type adminSummary struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := s.svc.ListAdmins(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := make([]adminSummary, 0, len(admins))
	for _, admin := range admins {
		resp = append(resp, adminSummary{UserID: admin.ID, Name: admin.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

type listAssignmentsResponse struct {
	Assignments []assignmentResponse `json:"assignments"`
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.ListAssignments(r.Context(), AdminIDFromContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := listAssignmentsResponse{Assignments: make([]assignmentResponse, 0, len(views))}
	for _, view := range views {
		resp.Assignments = append(resp.Assignments, mapAssignment(view))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReview(decision model.Status) http.HandlerFunc {
	message := "Assignment accepted successfully"
	if decision == model.StatusRejected {
		message = "Assignment rejected successfully"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := AdminIDFromContext(r.Context())
		view, err := s.svc.Review(r.Context(), adminID, chi.URLParam(r, "assignmentId"), decision)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		metrics.Review(string(decision))
		httplog.LogEntry(r.Context()).Info("assignment reviewed", "assignment_id", view.ID, "admin_id", adminID, "status", view.Status)
		writeJSON(w, http.StatusOK, assignmentEnvelope{Message: message, Assignment: mapAssignment(view)})
	}
}
