package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/service"
)

// NewEventHandler builds the back-office pages for events. Uploads come from the "images" field.
func NewEventHandler(svc service.EventService, logger zerolog.Logger, exposeErrors bool) *ContentHandler[models.Event, dto.EventForm] {
	return &ContentHandler[models.Event, dto.EventForm]{
		pages:    newPages(logger, "admin_event_handler", exposeErrors),
		basePath: "/admin/events",
		listView: "admin/events-list",
		formView: "admin/event-form",
		notFound: "Événement non trouvé",
		missing:  service.ErrEventNotFound,
		list:     svc.List,
		get:      svc.Get,
		options:  svc.FormOptions,
		create: func(c *fiber.Ctx, form dto.EventForm, meta service.RequestMeta) error {
			_, err := svc.Create(c.UserContext(), form, formFiles(c, "images"), meta)
			return err
		},
		update: func(c *fiber.Ctx, id uint, form dto.EventForm, meta service.RequestMeta) error {
			_, err := svc.Update(c.UserContext(), id, form, formFiles(c, "images"), meta)
			return err
		},
		remove: svc.Delete,
	}
}

// NewNewsHandler builds the back-office pages for news articles.
func NewNewsHandler(svc service.NewsService, logger zerolog.Logger, exposeErrors bool) *ContentHandler[models.News, dto.NewsForm] {
	return &ContentHandler[models.News, dto.NewsForm]{
		pages:    newPages(logger, "admin_news_handler", exposeErrors),
		basePath: "/admin/news",
		listView: "admin/news-list",
		formView: "admin/news-form",
		notFound: "Actualité non trouvée",
		missing:  service.ErrNewsNotFound,
		list:     svc.List,
		get:      svc.Get,
		options:  svc.FormOptions,
		create: func(c *fiber.Ctx, form dto.NewsForm, meta service.RequestMeta) error {
			_, err := svc.Create(c.UserContext(), form, formFiles(c, "images"), meta)
			return err
		},
		update: func(c *fiber.Ctx, id uint, form dto.NewsForm, meta service.RequestMeta) error {
			_, err := svc.Update(c.UserContext(), id, form, formFiles(c, "images"), meta)
			return err
		},
		remove: svc.Delete,
	}
}

// NewQuoteHandler builds the back-office pages for quotes.
func NewQuoteHandler(svc service.QuoteService, logger zerolog.Logger, exposeErrors bool) *ContentHandler[models.Quote, dto.QuoteForm] {
	return &ContentHandler[models.Quote, dto.QuoteForm]{
		pages:    newPages(logger, "admin_quote_handler", exposeErrors),
		basePath: "/admin/quotes",
		listView: "admin/quotes-list",
		formView: "admin/quote-form",
		notFound: "Citation non trouvée",
		missing:  service.ErrQuoteNotFound,
		list:     svc.List,
		get:      svc.Get,
		options:  svc.FormOptions,
		create: func(c *fiber.Ctx, form dto.QuoteForm, meta service.RequestMeta) error {
			_, err := svc.Create(c.UserContext(), form, meta)
			return err
		},
		update: func(c *fiber.Ctx, id uint, form dto.QuoteForm, meta service.RequestMeta) error {
			_, err := svc.Update(c.UserContext(), id, form, meta)
			return err
		},
		remove: svc.Delete,
	}
}

// NewMemberHandler builds the back-office pages for team members. The portrait comes from "image".
func NewMemberHandler(svc service.MemberService, logger zerolog.Logger, exposeErrors bool) *ContentHandler[models.Member, dto.MemberForm] {
	return &ContentHandler[models.Member, dto.MemberForm]{
		pages:    newPages(logger, "admin_member_handler", exposeErrors),
		basePath: "/admin/members",
		listView: "admin/members-list",
		formView: "admin/member-form",
		notFound: "Membre non trouvé",
		missing:  service.ErrMemberNotFound,
		list:     svc.List,
		get:      svc.Get,
		options:  svc.FormOptions,
		create: func(c *fiber.Ctx, form dto.MemberForm, meta service.RequestMeta) error {
			_, err := svc.Create(c.UserContext(), form, formFile(c, "image"), meta)
			return err
		},
		update: func(c *fiber.Ctx, id uint, form dto.MemberForm, meta service.RequestMeta) error {
			_, err := svc.Update(c.UserContext(), id, form, formFile(c, "image"), meta)
			return err
		},
		remove: svc.Delete,
	}
}

// NewDonationHandler builds the back-office pages for donation campaigns.
func NewDonationHandler(svc service.DonationService, logger zerolog.Logger, exposeErrors bool) *ContentHandler[models.Donation, dto.DonationForm] {
	return &ContentHandler[models.Donation, dto.DonationForm]{
		pages:    newPages(logger, "admin_donation_handler", exposeErrors),
		basePath: "/admin/donations",
		listView: "admin/donations-list",
		formView: "admin/donation-form",
		notFound: "Campagne non trouvée",
		missing:  service.ErrDonationNotFound,
		list:     svc.List,
		get:      svc.Get,
		create: func(c *fiber.Ctx, form dto.DonationForm, meta service.RequestMeta) error {
			_, err := svc.Create(c.UserContext(), form, formFiles(c, "images"), meta)
			return err
		},
		update: func(c *fiber.Ctx, id uint, form dto.DonationForm, meta service.RequestMeta) error {
			_, err := svc.Update(c.UserContext(), id, form, formFiles(c, "images"), meta)
			return err
		},
		remove: svc.Delete,
	}
}
