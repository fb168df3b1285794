package services

import (
	"fmt"
	"sort"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"gorm.io/gorm"
)

// GetFeed merges the posts written by the viewer's friends with the posts of
// anyone else that a friend has commented on, newest first. Equal creation
// times are ordered by the higher id first.
func GetFeed(tx *gorm.DB, viewer uint) ([]models.Post, error) {
	friends, err := ListFriendIDs(tx, viewer)
	if err != nil {
		return nil, err
	}

	feed := make([]models.Post, 0)
	if len(friends) == 0 {
		return feed, nil
	}

	var authored []models.Post
	if err := PreloadGeneral(tx).
		Where("account_id IN ?", friends).
		Order("created_at DESC, id DESC").
		Find(&authored).Error; err != nil {
		return nil, fmt.Errorf("failed to load posts of friends: %v", err)
	}
	feed = append(feed, authored...)

	commentedByFriends := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Comment{}).
		Select("1").
		Where("comments.post_id = posts.id").
		Where("comments.account_id IN ?", friends)

	var commented []models.Post
	if err := PreloadGeneral(tx).
		Where("account_id NOT IN ?", friends).
		Where("EXISTS (?)", commentedByFriends).
		Order("created_at DESC, id DESC").
		Find(&commented).Error; err != nil {
		return nil, fmt.Errorf("failed to load posts commented by friends: %v", err)
	}
	feed = append(feed, commented...)

	sort.SliceStable(feed, func(i, j int) bool {
		if !feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].CreatedAt.After(feed[j].CreatedAt)
		}
		return feed[i].ID > feed[j].ID
	})

	return feed, nil
}
