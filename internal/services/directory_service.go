package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nexadigital/nexa-api/internal/cache"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/pkg/circuitbreaker"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	// AvatarFetchLimit is how many users are read to pick the newest from
	AvatarFetchLimit = 100
	// AvatarCount is how many avatars the landing page shows
	AvatarCount = 5

	defaultPageSize  = identity.MaxPageSize
	defaultPageDelay = 100 * time.Millisecond
)

// DirectoryOptions tunes directory pagination
type DirectoryOptions struct {
	PageSize  int
	PageDelay time.Duration
}

// DirectoryService aggregates the identity provider's user directory
type DirectoryService struct {
	lister     DirectoryLister
	breaker    *gobreaker.CircuitBreaker
	countCache *cache.CountCache
	pageSize   int
	pageDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewDirectoryService creates a directory service. countCache may be nil.
func NewDirectoryService(lister DirectoryLister, countCache *cache.CountCache, opts DirectoryOptions) *DirectoryService {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > identity.MaxPageSize {
		pageSize = defaultPageSize
	}
	pageDelay := opts.PageDelay
	if pageDelay < 0 {
		pageDelay = defaultPageDelay
	}

	return &DirectoryService{
		lister:     lister,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("identity-directory")),
		countCache: countCache,
		pageSize:   pageSize,
		pageDelay:  pageDelay,
		sleep:      sleepContext,
	}
}

// Count returns directory statistics, served from the count cache when fresh
func (s *DirectoryService) Count(ctx context.Context) (*models.DirectoryStats, error) {
	if s.countCache == nil {
		return s.CountUsers(ctx)
	}
	return s.countCache.Get(ctx, s.CountUsers)
}

// RefreshCount re-walks the directory and replaces the cached count
func (s *DirectoryService) RefreshCount(ctx context.Context) error {
	if s.countCache == nil {
		_, err := s.CountUsers(ctx)
		return err
	}
	_, err := s.countCache.Refresh(ctx, s.CountUsers)
	return err
}

// CountUsers pages through the whole directory, pausing between pages,
// and returns the aggregate. It stops early when ctx is done.
func (s *DirectoryService) CountUsers(ctx context.Context) (*models.DirectoryStats, error) {
	start := time.Now()
	stats := &models.DirectoryStats{}
	pageToken := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("directory walk cancelled after %d batches: %w", stats.Batches, err)
		}

		token := pageToken
		page, err := circuitbreaker.Execute(s.breaker, func() (*identity.Page, error) {
			return s.lister.ListUsers(ctx, s.pageSize, token)
		})
		if err != nil {
			logger.Error("Failed to list directory users",
				zap.Error(err),
				zap.Int("batch", stats.Batches+1),
				zap.Bool("breaker_open", circuitbreaker.IsCircuitOpen(s.breaker)))
			return nil, fmt.Errorf("failed to list users (batch %d): %w", stats.Batches+1, err)
		}

		stats.Batches++
		for _, u := range page.Users {
			stats.Total++
			if u.Active() {
				stats.Active++
			}
			if u.Disabled {
				stats.Disabled++
			}
			if u.EmailVerified {
				stats.EmailVerified++
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken

		if err := s.sleep(ctx, s.pageDelay); err != nil {
			return nil, fmt.Errorf("directory walk cancelled after %d batches: %w", stats.Batches, err)
		}
	}

	stats.Inactive = stats.Total - stats.Active
	metrics.DirectoryUsers.Set(float64(stats.Total))

	logger.Info("Directory count completed",
		zap.Int("total", stats.Total),
		zap.Int("active", stats.Active),
		zap.Int("batches", stats.Batches),
		zap.Duration("duration", time.Since(start)))

	return stats, nil
}

// Avatars returns the newest users' avatars, newest first
func (s *DirectoryService) Avatars(ctx context.Context) ([]models.AvatarUser, error) {
	page, err := circuitbreaker.Execute(s.breaker, func() (*identity.Page, error) {
		return s.lister.ListUsers(ctx, AvatarFetchLimit, "")
	})
	if err != nil {
		logger.Error("Failed to list users for avatars",
			zap.Error(err),
			zap.Bool("breaker_open", circuitbreaker.IsCircuitOpen(s.breaker)))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := append([]identity.User(nil), page.Users...)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if len(users) > AvatarCount {
		users = users[:AvatarCount]
	}

	avatars := make([]models.AvatarUser, 0, len(users))
	for _, u := range users {
		avatar := models.AvatarUser{UID: u.UID, DisplayName: u.DisplayName}
		if u.PhotoURL != "" {
			photo := u.PhotoURL
			avatar.PhotoURL = &photo
		}
		avatars = append(avatars, avatar)
	}

	return avatars, nil
}

// Summary renders stats as one human-readable line
func Summary(stats *models.DirectoryStats) string {
	return fmt.Sprintf("%d users (%d active, %d inactive, %d disabled, %d verified) in %d batches",
		stats.Total, stats.Active, stats.Inactive, stats.Disabled, stats.EmailVerified, stats.Batches)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
