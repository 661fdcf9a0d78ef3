package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/service"
	"github.com/noah-isme/mosquee-go/internal/utils"
)

// ContentHandler serves the list, form and write routes of one content type.
// T is the stored model and F the submitted form.
type ContentHandler[T any, F any] struct {
	pages
	basePath string
	listView string
	formView string
	notFound string
	missing  error

	list    func(ctx context.Context) ([]T, error)
	get     func(ctx context.Context, id uint) (T, error)
	options func(ctx context.Context) (dto.TaxonomyOptions, error)
	create  func(c *fiber.Ctx, form F, meta service.RequestMeta) error
	update  func(c *fiber.Ctx, id uint, form F, meta service.RequestMeta) error
	remove  func(ctx context.Context, id uint, meta service.RequestMeta) error
}

// Register attaches routes relative to the resource group.
func (h *ContentHandler[T, F]) Register(router fiber.Router) {
	router.Get("", h.index)
	router.Get("/new", h.newForm)
	router.Post("", h.store)
	router.Get("/:id/edit", h.editForm)
	router.Post("/:id", h.save)
	router.Post("/:id/delete", h.destroy)
}

// Index exposes the list page for route aliases.
func (h *ContentHandler[T, F]) Index() fiber.Handler {
	return h.index
}

func (h *ContentHandler[T, F]) index(c *fiber.Ctx) error {
	items, err := h.list(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Erreur lors du chargement")
	}
	return utils.Render(c, fiber.StatusOK, h.listView, dto.ListView{Items: items, Count: len(items)})
}

func (h *ContentHandler[T, F]) newForm(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, nil, "")
}

func (h *ContentHandler[T, F]) editForm(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return h.renderNotFound(c, h.notFound)
	}
	item, err := h.get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, h.missing) {
			return h.renderNotFound(c, h.notFound)
		}
		return h.fail(c, err, "Erreur lors du chargement")
	}
	return h.renderForm(c, fiber.StatusOK, item, "")
}

func (h *ContentHandler[T, F]) store(c *fiber.Ctx) error {
	var form F
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, nil, "Requête invalide")
	}

	if err := h.create(c, form, requestMeta(c)); err != nil {
		if isBadInput(err) {
			return h.renderForm(c, fiber.StatusBadRequest, form, validationMessage(err))
		}
		return h.fail(c, err, "Erreur lors de la création")
	}
	return c.Redirect(h.basePath, fiber.StatusFound)
}

func (h *ContentHandler[T, F]) save(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return h.renderNotFound(c, h.notFound)
	}

	var form F
	if err := c.BodyParser(&form); err != nil {
		return h.renderForm(c, fiber.StatusBadRequest, nil, "Requête invalide")
	}

	if err := h.update(c, id, form, requestMeta(c)); err != nil {
		switch {
		case errors.Is(err, h.missing):
			return h.renderNotFound(c, h.notFound)
		case isBadInput(err):
			return h.renderForm(c, fiber.StatusBadRequest, form, validationMessage(err))
		default:
			return h.fail(c, err, "Erreur lors de la mise à jour")
		}
	}
	return c.Redirect(h.basePath, fiber.StatusFound)
}

func (h *ContentHandler[T, F]) destroy(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return h.renderNotFound(c, h.notFound)
	}
	if err := h.remove(c.UserContext(), id, requestMeta(c)); err != nil {
		if errors.Is(err, h.missing) {
			return h.renderNotFound(c, h.notFound)
		}
		return h.fail(c, err, "Erreur lors de la suppression")
	}
	return c.Redirect(h.basePath, fiber.StatusFound)
}

func (h *ContentHandler[T, F]) renderForm(c *fiber.Ctx, status int, item interface{}, message string) error {
	view := dto.FormView{Item: item, Error: message}
	if h.options != nil {
		options, err := h.options(c.UserContext())
		if err != nil {
			return h.fail(c, err, "Erreur lors du chargement")
		}
		view.Options = options
	}
	return utils.Render(c, status, h.formView, view)
}
