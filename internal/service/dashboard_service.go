package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

// DashboardService aggregates back-office counters.
type DashboardService interface {
	Summary(ctx context.Context, principal Principal) (dto.DashboardResponse, error)
}

type dashboardService struct {
	events    repository.EventRepository
	news      repository.NewsRepository
	members   repository.MemberRepository
	donations repository.DonationRepository
	quotes    repository.QuoteRepository
	users     repository.UserRepository
	logger    zerolog.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(events repository.EventRepository, news repository.NewsRepository, members repository.MemberRepository, donations repository.DonationRepository, quotes repository.QuoteRepository, users repository.UserRepository, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		events:    events,
		news:      news,
		members:   members,
		donations: donations,
		quotes:    quotes,
		users:     users,
		logger:    logger.With().Str("component", "dashboard_service").Logger(),
	}
}

// Summary counts stored content; the user count is only computed for super admins.
func (s *dashboardService) Summary(ctx context.Context, principal Principal) (dto.DashboardResponse, error) {
	var counts dto.DashboardCounts
	counters := []struct {
		target *int64
		count  func(context.Context) (int64, error)
	}{
		{&counts.Events, s.events.Count},
		{&counts.News, s.news.Count},
		{&counts.Members, s.members.Count},
		{&counts.Donations, s.donations.Count},
		{&counts.Quotes, s.quotes.Count},
	}
	for _, counter := range counters {
		value, err := counter.count(ctx)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		*counter.target = value
	}

	superAdmin := principal.IsSuperAdmin()
	if superAdmin {
		users, err := s.users.Count(ctx)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		counts.Users = &users
	}

	return dto.DashboardResponse{
		Username:     principal.Username,
		Counts:       counts,
		Permissions:  principal.Permissions,
		Tag:          principal.Tag,
		IsSuperAdmin: superAdmin,
	}, nil
}
