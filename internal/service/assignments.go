package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

type UploadInput struct {
	Task    string `json:"task" validate:"required"`
	AdminID string `json:"admin" validate:"required"`
	// UserID defaults to the acting user when empty.
	UserID string `json:"userId"`
}

// AssignmentView is an assignment joined with its submitter's display name.
type AssignmentView struct {
	ID        string
	UserID    string
	Name      string
	AdminID   string
	Task      string
	Status    model.Status
	CreatedAt time.Time
}

func newView(a model.Assignment, name string) AssignmentView {
	return AssignmentView{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      name,
		AdminID:   a.AdminID,
		Task:      a.Task,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

func (s *Service) Upload(ctx context.Context, actingUserID string, in UploadInput) (AssignmentView, error) {
	in.Task = strings.TrimSpace(in.Task)
	in.AdminID = strings.TrimSpace(in.AdminID)
	in.UserID = strings.TrimSpace(in.UserID)
	if err := s.validate.Struct(in); err != nil {
		return AssignmentView{}, err
	}
	if in.UserID == "" {
		in.UserID = actingUserID
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	user, err := s.store.GetPrincipalByID(ctx, model.KindUser, in.UserID)
	if err != nil {
		return AssignmentView{}, notFoundOr(err, apperr.CodeUserNotFound, "User not found")
	}
	if _, err := s.store.GetPrincipalByID(ctx, model.KindAdmin, in.AdminID); err != nil {
		return AssignmentView{}, notFoundOr(err, apperr.CodeAdminNotFound, "Admin not found")
	}
	if user.ID != actingUserID {
		return AssignmentView{}, apperr.Forbidden(apperr.CodeForbidden, "You can only upload assignments as yourself")
	}

	assignment := model.Assignment{
		ID:        s.newID(),
		UserID:    user.ID,
		AdminID:   in.AdminID,
		Task:      in.Task,
		Status:    model.StatusPending,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		return AssignmentView{}, apperr.Internal(err)
	}
	return newView(assignment, user.DisplayName()), nil
}

// ListAssignments returns the acting admin's assignments, newest first. status may be empty.
func (s *Service) ListAssignments(ctx context.Context, adminID, status string) ([]AssignmentView, error) {
	filter := repository.AssignmentFilter{AdminID: adminID}
	if strings.TrimSpace(status) != "" {
		parsed, err := model.ParseStatus(status)
		if err != nil {
			return nil, apperr.BadRequest(apperr.CodeInvalidStatus, "status must be one of pending, accepted, rejected")
		}
		filter.Status = &parsed
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	assignments, err := s.store.ListAssignments(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(assignments) == 0 {
		return nil, apperr.NotFound(apperr.CodeNoAssignments, "No assignments found")
	}

	userIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := s.store.FindPrincipals(ctx, model.KindUser, userIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, newView(a, users[a.UserID].DisplayName()))
	}
	return out, nil
}

// Review moves a pending assignment owned by adminID to decision, which must be accepted or rejected.
func (s *Service) Review(ctx context.Context, adminID, assignmentID string, decision model.Status) (AssignmentView, error) {
	verb, err := reviewVerb(decision)
	if err != nil {
		return AssignmentView{}, apperr.Internal(err)
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	assignment, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return AssignmentView{}, notFoundOr(err, apperr.CodeAssignmentNotFound, "Assignment not found")
	}
	if assignment.AdminID != adminID {
		return AssignmentView{}, apperr.Forbidden(apperr.CodeNotAssignmentOwner,
			fmt.Sprintf("You are not authorized to %s this assignment.", verb))
	}

	updated, err := s.store.TransitionAssignment(ctx, assignmentID, model.StatusPending, decision)
	switch {
	case errors.Is(err, repository.ErrStatusConflict):
		return AssignmentView{}, apperr.Conflict(apperr.CodeAlreadyReviewed,
			fmt.Sprintf("Assignment has already been %s", updated.Status))
	case err != nil:
		return AssignmentView{}, notFoundOr(err, apperr.CodeAssignmentNotFound, "Assignment not found")
	}

	var name string
	user, err := s.store.GetPrincipalByID(ctx, model.KindUser, updated.UserID)
	switch {
	case err == nil:
		name = user.DisplayName()
	case !errors.Is(err, repository.ErrNotFound):
		return AssignmentView{}, apperr.Internal(err)
	}
	return newView(updated, name), nil
}

func reviewVerb(decision model.Status) (string, error) {
	switch decision {
	case model.StatusAccepted:
		return "accept", nil
	case model.StatusRejected:
		return "reject", nil
	default:
		return "", fmt.Errorf("review decision must be accepted or rejected, got %q", decision)
	}
}

func notFoundOr(err error, code, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(code, message)
	}
	return apperr.Internal(err)
}
