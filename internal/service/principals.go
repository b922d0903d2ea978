package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/crypto"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,min=3,max=100"`
	LastName  string `json:"lastName" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,min=3,max=100,email"`
	Password  string `json:"password" validate:"required,min=8,max=30,password_policy"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Principal model.Principal
	Token     string
	Claims    auth.Claims
}

// AdminSummary is the public projection of an admin.
type AdminSummary struct {
	ID   string
	Name string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, kind model.Kind, in RegisterInput) (model.Principal, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return model.Principal{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.Principal{}, apperr.Internal(err)
	}

	principal := model.Principal{
		ID:           s.newID(),
		Kind:         kind,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.store.CreatePrincipal(ctx, principal); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.Principal{}, apperr.Conflict(apperr.CodeEmailTaken, "Email is already registered")
		}
		return model.Principal{}, apperr.Internal(err)
	}
	return principal, nil
}

func (s *Service) Login(ctx context.Context, kind model.Kind, in LoginInput) (LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return LoginResult{}, err
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	principal, err := s.store.GetPrincipalByEmail(storeCtx, kind, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, apperr.Forbidden(apperr.CodePrincipalNotFound, kind.Title()+" does not exist!")
		}
		return LoginResult{}, apperr.Internal(err)
	}

	if err := s.hasher.Check(principal.PasswordHash, in.Password); err != nil {
		if errors.Is(err, crypto.ErrMismatch) {
			return LoginResult{}, apperr.Forbidden(apperr.CodeInvalidCredentials, "Incorrect Credentials!")
		}
		return LoginResult{}, apperr.Internal(err)
	}

	token, claims, err := s.tokens.Issue(kind, principal.ID)
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	return LoginResult{Principal: principal, Token: token, Claims: claims}, nil
}

func (s *Service) ListAdmins(ctx context.Context) ([]AdminSummary, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	admins, err := s.store.ListPrincipals(ctx, model.KindAdmin)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]AdminSummary, 0, len(admins))
	for _, admin := range admins {
		out = append(out, AdminSummary{ID: admin.ID, Name: admin.DisplayName()})
	}
	return out, nil
}
