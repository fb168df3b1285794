package services

import (
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	db := newTestDB(t)

	account, err := NewAccount(db, "alice", "  Alice@Example.com ", "Alice", "password")
	require.NoError(t, err)
	assert.NotZero(t, account.ID)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.NotEqual(t, "password", account.Password)

	_, err = NewAccount(db, "alice", "other@example.com", "Alice", "password")
	assert.ErrorIs(t, err, ErrAccountTaken)
	_, err = NewAccount(db, "bob", "ALICE@example.com", "Bob", "password")
	assert.ErrorIs(t, err, ErrAccountTaken)
}

func TestAuthenticateAccount(t *testing.T) {
	db := newTestDB(t)
	created := newTestAccount(t, db, "alice")

	account, err := AuthenticateAccount(db, "ALICE@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	_, err = AuthenticateAccount(db, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = AuthenticateAccount(db, "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetAccountNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetAccount(db, 42)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	alice := newTestAccount(t, db, "alice")

	account, err := UpdateProfile(db, alice.ID, ProfileUpdate{
		Nick:   lo.ToPtr("Alice in Wonderland"),
		Avatar: lo.ToPtr("https://example.com/alice.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice in Wonderland", account.Nick)
	require.NotNil(t, account.Avatar)
	assert.Equal(t, "https://example.com/alice.png", *account.Avatar)
	assert.Equal(t, "alice", account.Name)

	account, err = UpdateProfile(db, alice.ID, ProfileUpdate{Avatar: lo.ToPtr("")})
	require.NoError(t, err)
	assert.Nil(t, account.Avatar)
	assert.Equal(t, "Alice in Wonderland", account.Nick)

	account, err = UpdateProfile(db, alice.ID, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Alice in Wonderland", account.Nick)

	_, err = UpdateProfile(db, 42, ProfileUpdate{Nick: lo.ToPtr("ghost")})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	alice := newTestAccount(t, db, "alice")

	assert.ErrorIs(t, ChangePassword(db, alice.ID, "wrong", "new-password"), ErrInvalidCredentials)
	require.NoError(t, ChangePassword(db, alice.ID, "password", "new-password"))

	_, err := AuthenticateAccount(db, "alice@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = AuthenticateAccount(db, "alice@example.com", "new-password")
	assert.NoError(t, err)
}

func TestCreateAccountReportsTakenName(t *testing.T) {
	db := newTestDB(t)
	_ = newTestAccount(t, db, "alice")

	// Skips the lookup NewAccount does, as a concurrent signup would.
	err := createAccount(db, &models.Account{Name: "alice", Email: "second@example.com", Nick: "Alice"})
	assert.ErrorIs(t, err, ErrAccountTaken)
	err = createAccount(db, &models.Account{Name: "alice2", Email: "alice@example.com", Nick: "Alice"})
	assert.ErrorIs(t, err, ErrAccountTaken)
}
