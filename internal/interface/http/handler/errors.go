package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/wichananm65/camera-store-backend/internal/catalog/facet"
	"github.com/wichananm65/camera-store-backend/internal/catalog/filtersync"
	"github.com/wichananm65/camera-store-backend/internal/usecase"
)

// writeError maps use case errors onto HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	var (
		verr *usecase.ValidationError
		nerr *usecase.NotFoundError
		herr *usecase.HasChildrenError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Error(), "field": verr.Field})
	case errors.As(err, &nerr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": nerr.Error()})
	case errors.As(err, &herr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": herr.Error(), "childCount": herr.ChildCount})
	case errors.Is(err, filtersync.ErrNavigationInProgress):
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "navigation ignored: " + err.Error()})
	case errors.Is(err, facet.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}
