package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind separates the two principal namespaces. Users and admins never share storage or signing secrets.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

func (k Kind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// Title is the capitalised kind used in client-facing messages.
func (k Kind) Title() string {
	if k == KindAdmin {
		return "Admin"
	}
	return "User"
}

type Principal struct {
	ID           string
	Kind         Kind
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
}

func (p Principal) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(value string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown status %q", value)
	}
}

type Assignment struct {
	ID        string
	UserID    string
	AdminID   string
	Task      string
	Status    Status
	CreatedAt time.Time
}
