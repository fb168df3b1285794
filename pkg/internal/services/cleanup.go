package services

import (
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// PurgeDeletedPosts hard-deletes posts that were soft-deleted before the
// deadline together with their comments.
func PurgeDeletedPosts(tx *gorm.DB, deadline time.Time) (int64, error) {
	var purged int64
	err := tx.Transaction(func(tx *gorm.DB) error {
		expired := tx.Session(&gorm.Session{NewDB: true}).
			Unscoped().
			Model(&models.Post{}).
			Select("id").
			Where("deleted_at IS NOT NULL AND deleted_at < ?", deadline)

		if err := tx.Where("post_id IN (?)", expired).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", deadline).
			Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})

	return purged, err
}

func DoAutoDatabaseCleanup() {
	retention := viper.GetDuration("cleanup.retention")
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	deadline := time.Now().Add(-retention)

	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	count, err := PurgeDeletedPosts(database.C, deadline)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when running database cleanup...")
		return
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
