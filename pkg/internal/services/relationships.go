package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	localCache "git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountWithStatus struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Nick   string  `json:"nick"`
	Avatar *string `json:"avatar"`
	Status string  `json:"status"`
}

// friendCacheTTL bounds how long a list read before a concurrent accept can
// survive the invalidation that accept performs.
const friendCacheTTL = 30 * time.Second

func friendCacheKey(account uint) string {
	return fmt.Sprintf("account-friend-ids#%d", account)
}

func accountCacheTag(account uint) string {
	return fmt.Sprintf("account#%d", account)
}

func contextOf(tx *gorm.DB) context.Context {
	if tx.Statement != nil && tx.Statement.Context != nil {
		return tx.Statement.Context
	}
	return context.Background()
}

// ListFriendIDs returns the friend list of an account. Must not be called
// inside a transaction that mutates friendships since the result is cached.
func ListFriendIDs(tx *gorm.DB, account uint) ([]uint, error) {
	ctx := contextOf(tx)

	var marshal *marshaler.Marshaler
	if localCache.S != nil {
		marshal = marshaler.New(cache.New[any](localCache.S))
		if val, err := marshal.Get(ctx, friendCacheKey(account), new([]uint)); err == nil {
			return *val.(*[]uint), nil
		}
	}

	var ids []uint
	if err := tx.Model(&models.Friendship{}).
		Where("account_id = ?", account).
		Order("friend_id ASC").
		Pluck("friend_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("unable to list friends: %w", err)
	}

	if marshal != nil {
		_ = marshal.Set(
			ctx,
			friendCacheKey(account),
			ids,
			store.WithExpiration(friendCacheTTL),
			store.WithTags([]string{"account-friend-ids", accountCacheTag(account)}),
		)
	}

	return ids, nil
}

func invalidateFriendCache(ctx context.Context, accounts ...uint) {
	if localCache.S == nil {
		return
	}
	marshal := marshaler.New(cache.New[any](localCache.S))
	for _, account := range accounts {
		if err := marshal.Delete(ctx, friendCacheKey(account)); err != nil {
			log.Warn().Err(err).Uint("account", account).Msg("An error occurred when invalidating friend cache...")
		}
	}
	tags := lo.Map(accounts, func(item uint, _ int) string {
		return accountCacheTag(item)
	})
	_ = marshal.Invalidate(ctx, store.WithInvalidateTags(tags))
}

func ListFriends(tx *gorm.DB, account uint) ([]models.Account, error) {
	ids, err := ListFriendIDs(tx, account)
	if err != nil {
		return nil, err
	}
	friends := make([]models.Account, 0, len(ids))
	if len(ids) == 0 {
		return friends, nil
	}
	if err := selectPublicAccount(tx).Where("id IN ?", ids).Order("id ASC").Find(&friends).Error; err != nil {
		return nil, fmt.Errorf("unable to load friends: %w", err)
	}
	return friends, nil
}

func ListPendingRequests(tx *gorm.DB, account uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := tx.Where("account_id = ?", account).Order("id ASC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("unable to list pending friend requests: %w", err)
	}
	return requests, nil
}

// SendFriendRequest pushes the mirrored pending entries onto both accounts.
func SendFriendRequest(tx *gorm.DB, actor, target uint) error {
	if actor == target {
		return ErrInvalidTarget
	}

	log.Debug().Uint("actor", actor).Uint("target", target).Msg("Sending friend request...")

	return tx.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("id = ?", target).Count(&count).Error; err != nil {
			return fmt.Errorf("unable to find target account: %w", err)
		} else if count == 0 {
			return ErrAccountNotFound
		}

		if err := tx.Model(&models.FriendRequest{}).
			Where("account_id = ? AND counterparty_id = ?", actor, target).
			Count(&count).Error; err != nil {
			return fmt.Errorf("unable to count pending friend requests: %w", err)
		} else if count > 0 {
			return ErrDuplicateRequest
		}

		if err := tx.Model(&models.Friendship{}).
			Where("account_id = ? AND friend_id = ?", actor, target).
			Count(&count).Error; err != nil {
			return fmt.Errorf("unable to count friendships: %w", err)
		} else if count > 0 {
			return ErrAlreadyFriends
		}

		return pushFriendRequests(tx, actor, target)
	})
}

// pushFriendRequests writes the mirrored pair in one statement. The pair index
// rejects it when a concurrent send between the same accounts got there first.
func pushFriendRequests(tx *gorm.DB, actor, target uint) error {
	requests := []models.FriendRequest{
		{AccountID: actor, CounterpartyID: target, Direction: models.FriendRequestSent},
		{AccountID: target, CounterpartyID: actor, Direction: models.FriendRequestReceived},
	}
	if err := tx.Create(&requests).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("unable to save friend request: %w", err)
	}
	return nil
}

func pullFriendRequests(tx *gorm.DB, a, b uint) error {
	return tx.
		Where("(account_id = ? AND counterparty_id = ?) OR (account_id = ? AND counterparty_id = ?)", a, b, b, a).
		Delete(&models.FriendRequest{}).Error
}

// AcceptFriendRequest requires the accepter to hold a received entry from the
// requester, then replaces the pending pair with a friendship pair.
func AcceptFriendRequest(tx *gorm.DB, accepter, requester uint) error {
	err := tx.Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		if err := tx.Where(
			"account_id = ? AND counterparty_id = ? AND direction = ?",
			accepter, requester, models.FriendRequestReceived,
		).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("unable to find friend request: %w", err)
		}

		if err := pullFriendRequests(tx, accepter, requester); err != nil {
			return fmt.Errorf("unable to remove friend request: %w", err)
		}

		friendships := []models.Friendship{
			{AccountID: accepter, FriendID: requester},
			{AccountID: requester, FriendID: accepter},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&friendships).Error; err != nil {
			return fmt.Errorf("unable to save friendship: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	invalidateFriendCache(contextOf(tx), accepter, requester)
	log.Info().Uint("accepter", accepter).Uint("requester", requester).Msg("Friend request accepted.")
	return nil
}

// RejectFriendRequest clears the pending pair. Either side may call it, so a
// sender can also withdraw their own request.
func RejectFriendRequest(tx *gorm.DB, rejecter, requester uint) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("(account_id = ? AND counterparty_id = ?) OR (account_id = ? AND counterparty_id = ?)", rejecter, requester, requester, rejecter).
			Delete(&models.FriendRequest{})
		if res.Error != nil {
			return fmt.Errorf("unable to remove friend request: %w", res.Error)
		} else if res.RowsAffected == 0 {
			return ErrRequestNotFound
		}
		return nil
	})
}

// ListAccountsWithStatus resolves the relationship of the viewer with every
// other account. A pending entry takes precedence over the friend list.
func ListAccountsWithStatus(tx *gorm.DB, viewer uint) ([]AccountWithStatus, error) {
	var accounts []models.Account
	if err := tx.Where("id <> ?", viewer).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("unable to list accounts: %w", err)
	}

	pending, err := ListPendingRequests(tx, viewer)
	if err != nil {
		return nil, err
	}
	friends, err := ListFriendIDs(tx, viewer)
	if err != nil {
		return nil, err
	}

	directions := make(map[uint]string, len(pending))
	for _, request := range pending {
		if _, ok := directions[request.CounterpartyID]; !ok {
			directions[request.CounterpartyID] = request.Direction
		}
	}
	friendSet := lo.SliceToMap(friends, func(item uint) (uint, struct{}) {
		return item, struct{}{}
	})

	return lo.Map(accounts, func(item models.Account, _ int) AccountWithStatus {
		status := models.RelationshipNone
		if direction, ok := directions[item.ID]; ok {
			status = direction
		} else if _, ok := friendSet[item.ID]; ok {
			status = models.RelationshipFriend
		}
		return AccountWithStatus{
			ID:     item.ID,
			Name:   item.Name,
			Nick:   item.Nick,
			Avatar: item.Avatar,
			Status: status,
		}
	}), nil
}
