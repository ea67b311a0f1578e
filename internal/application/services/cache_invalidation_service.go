package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
)

// CacheInvalidationService drops cached aggregates when review events arrive,
// so rankings reflect a new submission before the cache TTL expires.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for review events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelReviews)
	if err != nil {
		return fmt.Errorf("failed to subscribe to review events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ReviewEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent handles a single review event. Only agency submissions carry a
// cached aggregate today; state scoreboards are computed per request.
func (s *CacheInvalidationService) handleEvent(event *entities.ReviewEvent) {
	if event.Type != entities.ReviewEventAgencySubmitted {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.Delete(ctx, RankingsCacheKey); err != nil {
		log.Printf("Warning: Failed to invalidate rankings cache after event %s: %v", event.ID, err)
		return
	}
	log.Printf("Invalidated rankings cache after review %s for %s", event.ID, event.Subject)
}
