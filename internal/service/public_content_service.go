package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/observability"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

const (
	publicCachePrefix = "public:v1:"
	homeNewsCount     = 3
	homeEventsCount   = 3
	homeQuotesCount   = 4
)

// PublicContentService serves the read-only public pages.
type PublicContentService interface {
	Home(ctx context.Context) (dto.HomeResponse, error)
	EventsPage(ctx context.Context) (dto.EventsPageResponse, error)
	Event(ctx context.Context, id uint) (dto.PublicEvent, error)
	News(ctx context.Context, id uint) (dto.PublicNews, error)
	Donations(ctx context.Context) ([]dto.PublicDonation, error)
	Team(ctx context.Context) ([]dto.TeamPole, error)
	Invalidate(ctx context.Context) error
}

type publicContentService struct {
	events    repository.EventRepository
	news      repository.NewsRepository
	quotes    repository.QuoteRepository
	members   repository.MemberRepository
	donations repository.DonationRepository
	cache     *redis.Client
	ttl       time.Duration
	logger    zerolog.Logger
	policy    *bluemonday.Policy
	shuffle   func(n int, swap func(i, j int))
}

// NewPublicContentService constructs the public read service. cache may be nil.
func NewPublicContentService(events repository.EventRepository, news repository.NewsRepository, quotes repository.QuoteRepository, members repository.MemberRepository, donations repository.DonationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) PublicContentService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &publicContentService{
		events:    events,
		news:      news,
		quotes:    quotes,
		members:   members,
		donations: donations,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With().Str("component", "public_content_service").Logger(),
		policy:    policy,
		shuffle:   rand.Shuffle,
	}
}

// Home caches news and events; quotes are drawn at random on every call.
func (s *publicContentService) Home(ctx context.Context) (dto.HomeResponse, error) {
	var response dto.HomeResponse
	if !s.cached(ctx, "home", &response) {
		news, err := s.news.Recent(ctx, homeNewsCount)
		if err != nil {
			return dto.HomeResponse{}, err
		}
		events, err := s.events.Recent(ctx, homeEventsCount)
		if err != nil {
			return dto.HomeResponse{}, err
		}

		response.News = make([]dto.PublicNews, 0, len(news))
		for _, item := range news {
			response.News = append(response.News, s.publicNews(item))
		}
		response.Events = make([]dto.PublicEvent, 0, len(events))
		for _, item := range events {
			response.Events = append(response.Events, s.publicEvent(item))
		}
		s.store(ctx, "home", response)
	}

	quotes, err := s.quotes.ListActive(ctx)
	if err != nil {
		return dto.HomeResponse{}, err
	}
	s.shuffle(len(quotes), func(i, j int) { quotes[i], quotes[j] = quotes[j], quotes[i] })
	if len(quotes) > homeQuotesCount {
		quotes = quotes[:homeQuotesCount]
	}
	response.Quotes = make([]dto.PublicQuote, 0, len(quotes))
	for _, quote := range quotes {
		response.Quotes = append(response.Quotes, dto.PublicQuote{
			ID:           quote.ID,
			TextOriginal: quote.TextOriginal,
			TextFR:       quote.TextFR,
			TextTR:       quote.TextTR,
			Author:       quote.Author,
		})
	}

	return response, nil
}

// EventsPage splits events by type label; unrecognised types are listed with events.
func (s *publicContentService) EventsPage(ctx context.Context) (dto.EventsPageResponse, error) {
	items, err := s.events.ListChronological(ctx)
	if err != nil {
		return dto.EventsPageResponse{}, err
	}

	response := dto.EventsPageResponse{
		Events:     []dto.PublicEvent{},
		Activities: []dto.PublicEvent{},
		All:        make([]dto.PublicEvent, 0, len(items)),
	}
	var unclassified []dto.PublicEvent
	for _, item := range items {
		event := s.publicEvent(item)
		response.All = append(response.All, event)
		switch ClassifyEventType(item.Type) {
		case EventKindEvent:
			response.Events = append(response.Events, event)
		case EventKindActivity:
			response.Activities = append(response.Activities, event)
		default:
			unclassified = append(unclassified, event)
		}
	}
	response.Events = append(response.Events, unclassified...)
	return response, nil
}

// Event kinds used to split the public calendar.
const (
	EventKindEvent        = "event"
	EventKindActivity     = "activity"
	EventKindUnclassified = ""
)

// ClassifyEventType maps a free-form type label onto a calendar section.
func ClassifyEventType(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	switch {
	case lower == "":
		return EventKindUnclassified
	case strings.Contains(lower, "event") || lower == "événement":
		return EventKindEvent
	case strings.Contains(lower, "activit") || lower == "cours":
		return EventKindActivity
	default:
		return EventKindUnclassified
	}
}

func (s *publicContentService) Event(ctx context.Context, id uint) (dto.PublicEvent, error) {
	key := fmt.Sprintf("event:%d", id)
	var cached dto.PublicEvent
	if s.cached(ctx, key, &cached) {
		return cached, nil
	}

	item, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PublicEvent{}, ErrEventNotFound
		}
		return dto.PublicEvent{}, err
	}
	event := s.publicEvent(item)
	s.store(ctx, key, event)
	return event, nil
}

func (s *publicContentService) News(ctx context.Context, id uint) (dto.PublicNews, error) {
	key := fmt.Sprintf("news:%d", id)
	var cached dto.PublicNews
	if s.cached(ctx, key, &cached) {
		return cached, nil
	}

	item, err := s.news.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PublicNews{}, ErrNewsNotFound
		}
		return dto.PublicNews{}, err
	}
	news := s.publicNews(item)
	s.store(ctx, key, news)
	return news, nil
}

func (s *publicContentService) Donations(ctx context.Context) ([]dto.PublicDonation, error) {
	items, err := s.donations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PublicDonation, 0, len(items))
	for _, item := range items {
		result = append(result, dto.PublicDonation{
			ID:            item.ID,
			Title:         strings.TrimSpace(item.Title),
			Description:   s.policy.Sanitize(item.Description),
			GoalAmount:    item.GoalAmount,
			CurrentAmount: item.CurrentAmount,
			Progress:      item.Progress(),
			EndDate:       item.EndDate,
			Image:         item.Image,
			Images:        cloneStrings(item.Images),
		})
	}
	return result, nil
}

// Team groups active members by pôle, keeping repository order.
func (s *publicContentService) Team(ctx context.Context) ([]dto.TeamPole, error) {
	members, err := s.members.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	poles := make([]dto.TeamPole, 0)
	index := make(map[string]int)
	for _, member := range members {
		member.Description = s.policy.Sanitize(member.Description)
		pos, ok := index[member.Pole]
		if !ok {
			pos = len(poles)
			index[member.Pole] = pos
			poles = append(poles, dto.TeamPole{Pole: member.Pole})
		}
		poles[pos].Members = append(poles[pos].Members, member)
	}
	return poles, nil
}

// Invalidate drops every cached public payload.
func (s *publicContentService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	iter := s.cache.Scan(ctx, 0, publicCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.cache.Del(ctx, keys...).Err()
}

func (s *publicContentService) cached(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, publicCachePrefix+key).Result()
	if err != nil || raw == "" {
		if err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("public cache read failed")
		}
		observability.PublicCache().WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		observability.PublicCache().WithLabelValues("miss").Inc()
		return false
	}
	observability.PublicCache().WithLabelValues("hit").Inc()
	return true
}

func (s *publicContentService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, publicCachePrefix+key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache public content")
	}
}

func (s *publicContentService) publicEvent(item models.Event) dto.PublicEvent {
	return dto.PublicEvent{
		ID:          item.ID,
		Type:        item.Type,
		Pole:        item.Pole,
		Title:       strings.TrimSpace(item.Title),
		Date:        item.Date,
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
		Location:    item.Location,
		Category:    item.Category,
		Description: s.policy.Sanitize(item.Description),
		Images:      cloneStrings(item.Images),
	}
}

func (s *publicContentService) publicNews(item models.News) dto.PublicNews {
	return dto.PublicNews{
		ID:        item.ID,
		Title:     strings.TrimSpace(item.Title),
		Content:   s.policy.Sanitize(item.Content),
		Image:     item.Image,
		Images:    cloneStrings(item.Images),
		Category:  item.Category,
		CreatedAt: item.CreatedAt,
	}
}
