package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/auth"
	"github.com/Virenishere/backend-assignment-portal/internal/config"
	"github.com/Virenishere/backend-assignment-portal/internal/crypto"
	"github.com/Virenishere/backend-assignment-portal/internal/db"
	"github.com/Virenishere/backend-assignment-portal/internal/logging"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/service"
)

// readPassword prefers the flag and falls back to the first line of stdin.
func readPassword(flag string, stdin io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	sc := bufio.NewScanner(stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("missing password from stdin")
	}
	password := strings.TrimSpace(sc.Text())
	if password == "" {
		return "", errors.New("missing password from stdin")
	}
	return password, nil
}

func hashPasswordCmd() *cli.Command {
	var password string
	var cost int
	return &cli.Command{
		Name:  "hash-password",
		Usage: "Print a bcrypt hash (password is read from stdin when --password is empty)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Destination: &password,
			},
			&cli.IntFlag{
				Name:        "cost",
				EnvVars:     []string{"BCRYPT_COST"},
				Value:       10,
				Destination: &cost,
			},
		},
		Action: func(ctx *cli.Context) error {
			plain, err := readPassword(password, ctx.App.Reader)
			if err != nil {
				return err
			}
			hash, err := crypto.NewHasher(cost).Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, hash)
			return nil
		},
	}
}

func issueTokenCmd() *cli.Command {
	var kind, id string
	var ttl time.Duration
	return &cli.Command{
		Name:  "issue-token",
		Usage: "Sign a token for an existing principal id using the configured secrets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Usage:       "user or admin",
				Value:       string(model.KindUser),
				Destination: &kind,
			},
			&cli.StringFlag{
				Name:        "id",
				Required:    true,
				Destination: &id,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				EnvVars:     []string{"TOKEN_TTL"},
				Value:       time.Hour,
				Destination: &ttl,
			},
		},
		Action: func(ctx *cli.Context) error {
			k := model.Kind(strings.ToLower(kind))
			if !k.Valid() {
				return fmt.Errorf("unknown kind %q", kind)
			}
			cfg := config.Load()
			tokens, err := auth.NewTokens(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.JWTIssuer, ttl)
			if err != nil {
				return err
			}
			token, _, err := tokens.Issue(k, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, token)
			return nil
		},
	}
}

func createAdminCmd() *cli.Command {
	var in service.RegisterInput
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Register an admin directly against the configured store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first-name", Required: true, Destination: &in.FirstName},
			&cli.StringFlag{Name: "last-name", Required: true, Destination: &in.LastName},
			&cli.StringFlag{Name: "email", Required: true, Destination: &in.Email},
			&cli.StringFlag{Name: "password", Destination: &in.Password},
		},
		Action: func(ctx *cli.Context) error {
			password, err := readPassword(in.Password, ctx.App.Reader)
			if err != nil {
				return err
			}
			in.Password = password

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := logging.New("portalctl", cfg.LogLevel, true)

			store, err := db.OpenStore(ctx.Context, cfg, logger.Logger)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			tokens, err := auth.NewTokens(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
			if err != nil {
				return err
			}
			svc := service.New(store, crypto.NewHasher(cfg.BcryptCost), tokens, cfg.DBTimeout)
			admin, err := svc.Register(ctx.Context, model.KindAdmin, in)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(ctx.App.Writer, admin.ID)
			return nil
		},
	}
}

// describe flattens validation details into a single line for the terminal.
func describe(err error) error {
	appErr, ok := apperr.As(err)
	if !ok || len(appErr.Details) == 0 {
		return err
	}
	parts := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return fmt.Errorf("%s (%s)", appErr.Message, strings.Join(parts, "; "))
}
