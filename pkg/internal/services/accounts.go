package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileUpdate lists every field of an account its owner may change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Nick   *string `json:"nick" validate:"omitempty,min=1,max=256"`
	Avatar *string `json:"avatar" validate:"omitempty,max=1024"`
}

func hashPassword(password string) (string, error) {
	cost := viper.GetInt("security.bcrypt_cost")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NewAccount(tx *gorm.DB, name, email, nick, password string) (models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := tx.Model(&models.Account{}).
		Where("name = ? OR email = ?", name, email).
		Count(&count).Error; err != nil {
		return models.Account{}, fmt.Errorf("unable to count existing accounts: %w", err)
	}
	if count > 0 {
		return models.Account{}, ErrAccountTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %w", err)
	}

	account := models.Account{
		Name:     name,
		Email:    email,
		Nick:     nick,
		Password: hash,
	}
	if err := createAccount(tx, &account); err != nil {
		return account, err
	}

	log.Info().Uint("account", account.ID).Str("name", account.Name).Msg("A new account has been created.")
	return account, nil
}

// createAccount inserts the account, a name or email taken by a concurrent
// signup is reported as ErrAccountTaken by the unique indexes.
func createAccount(tx *gorm.DB, account *models.Account) error {
	if err := tx.Create(account).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrAccountTaken
		}
		return fmt.Errorf("unable to create account: %w", err)
	}
	return nil
}

func AuthenticateAccount(tx *gorm.DB, email, password string) (models.Account, error) {
	var account models.Account
	if err := tx.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrInvalidCredentials
		}
		return account, fmt.Errorf("unable to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return account, ErrInvalidCredentials
	}

	return account, nil
}

func GetAccount(tx *gorm.DB, id uint) (models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrAccountNotFound
		}
		return account, fmt.Errorf("unable to get account by id: %w", err)
	}
	return account, nil
}

func UpdateProfile(tx *gorm.DB, id uint, data ProfileUpdate) (models.Account, error) {
	changes := map[string]any{}
	if data.Nick != nil {
		changes["nick"] = *data.Nick
	}
	if data.Avatar != nil {
		if len(*data.Avatar) == 0 {
			changes["avatar"] = nil
		} else {
			changes["avatar"] = *data.Avatar
		}
	}

	if len(changes) > 0 {
		res := tx.Model(&models.Account{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return models.Account{}, fmt.Errorf("unable to update profile: %w", res.Error)
		} else if res.RowsAffected == 0 {
			return models.Account{}, ErrAccountNotFound
		}
	}

	return GetAccount(tx, id)
}

func ChangePassword(tx *gorm.DB, id uint, current, next string) error {
	account, err := GetAccount(tx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(next)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}
	if err := tx.Model(&models.Account{}).Where("id = ?", id).Update("password", hash).Error; err != nil {
		return fmt.Errorf("unable to update password: %w", err)
	}

	log.Info().Uint("account", id).Msg("Account password has been changed.")
	return nil
}
