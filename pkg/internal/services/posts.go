package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func selectPublicAccount(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "nick", "avatar")
}

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Account", selectPublicAccount).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Account", selectPublicAccount)
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrPostNotFound
		}
		return item, fmt.Errorf("unable to get post: %w", err)
	}

	return item, nil
}

func ListAccountPost(tx *gorm.DB, account uint) ([]models.Post, error) {
	items := make([]models.Post, 0)
	if err := PreloadGeneral(tx).
		Where("account_id = ?", account).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list posts: %w", err)
	}

	return items, nil
}

func NewPost(tx *gorm.DB, author uint, content string) (models.Post, error) {
	if len(strings.TrimSpace(content)) == 0 {
		return models.Post{}, ErrEmptyContent
	}

	log.Debug().Uint("author", author).Msg("Posting a post...")
	start := time.Now()

	item := models.Post{
		Content:   content,
		Language:  DetectLanguage(content),
		AccountID: author,
	}
	if err := tx.Create(&item).Error; err != nil {
		return item, fmt.Errorf("unable to save post: %w", err)
	}

	log.Debug().Dur("elapsed", time.Since(start)).Uint("post", item.ID).Msg("The post is posted.")
	return GetPost(tx, item.ID)
}

// EditPost changes the content in a single update guarded by authorship, a
// missing post and a post of someone else are reported the same way.
func EditPost(tx *gorm.DB, actor, id uint, content string) (models.Post, error) {
	if len(strings.TrimSpace(content)) == 0 {
		return models.Post{}, ErrEmptyContent
	}

	res := tx.Model(&models.Post{}).
		Where("id = ? AND account_id = ?", id, actor).
		Updates(map[string]any{
			"content":  content,
			"language": DetectLanguage(content),
		})
	if res.Error != nil {
		return models.Post{}, fmt.Errorf("unable to update post: %w", res.Error)
	} else if res.RowsAffected == 0 {
		return models.Post{}, ErrPostNotFoundOrForbidden
	}

	return GetPost(tx, id)
}

func DeletePost(tx *gorm.DB, actor, id uint) error {
	res := tx.Where("id = ? AND account_id = ?", id, actor).Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("unable to delete post: %w", res.Error)
	} else if res.RowsAffected == 0 {
		return ErrPostNotFoundOrForbidden
	}

	log.Debug().Uint("post", id).Uint("actor", actor).Msg("The post is deleted.")
	return nil
}

// AddComment appends a comment to an existing post of anyone.
func AddComment(tx *gorm.DB, actor, postID uint, content string) (models.Post, error) {
	if len(strings.TrimSpace(content)) == 0 {
		return models.Post{}, ErrEmptyContent
	}

	var count int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return models.Post{}, fmt.Errorf("unable to find post: %w", err)
	} else if count == 0 {
		return models.Post{}, ErrPostNotFound
	}

	comment := models.Comment{
		Content:   content,
		PostID:    postID,
		AccountID: actor,
	}
	if err := tx.Create(&comment).Error; err != nil {
		return models.Post{}, fmt.Errorf("unable to save comment: %w", err)
	}

	return GetPost(tx, postID)
}
