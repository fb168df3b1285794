package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrInvalidTarget           = errors.New("you cannot send a friend request to yourself")
	ErrDuplicateRequest        = errors.New("a friend request between you two is already pending")
	ErrAlreadyFriends          = errors.New("you are already friends")
	ErrRequestNotFound         = errors.New("friend request not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountTaken            = errors.New("name or email has already been taken")
	ErrInvalidCredentials      = errors.New("invalid login credentials")
	ErrInvalidToken            = errors.New("authentication failed")
	ErrPostNotFound            = errors.New("post not found")
	ErrPostNotFoundOrForbidden = errors.New("post not found or you are not authorized to modify this post")
	ErrEmptyContent            = errors.New("content is required")
)

// isDuplicateKey reports a unique constraint violation. Dialectors translate
// it into gorm.ErrDuplicatedKey when TranslateError is on, the driver errors
// are checked as well for connections opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// SQLITE_CONSTRAINT_PRIMARYKEY and SQLITE_CONSTRAINT_UNIQUE
	var sqliteErr interface{ Code() int }
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == 1555 || code == 2067
	}

	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
