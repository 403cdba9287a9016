package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"galleryapi/internal/model"
	"galleryapi/internal/service"
)

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// paramID parses the :id route parameter as a positive integer identity.
func paramID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListEntities returns all entities of one type.
func ListEntities[T any](svc service.EntityService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeDomainError(c, err)
		}
		if items == nil {
			items = []T{}
		}
		return c.JSON(items)
	}
}

// GetEntity returns one entity by id.
func GetEntity[T any](svc service.EntityService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		item, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(item)
	}
}

// CreateEntity persists a new entity from the JSON body. A body carrying a
// zero identity gets one assigned; a caller-chosen identity that already
// exists yields a conflict.
func CreateEntity[E any, T model.Ptr[E, T]](svc service.EntityService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		instance := T(new(E))
		if err := c.BodyParser(instance); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		saved, err := svc.Save(c.UserContext(), instance)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	}
}

// UpdateEntity applies the JSON body as a DTO to the stored entity.
func UpdateEntity[E any, T model.Ptr[E, T]](svc service.EntityService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		dto := T(new(E))
		if err := c.BodyParser(dto); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		updated, err := svc.Update(c.UserContext(), id, dto)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteEntity removes the entity and returns the deleted value.
func DeleteEntity[T any](svc service.EntityService[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		deleted, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(deleted)
	}
}

type roleUpdateRequest struct {
	Role model.Role `json:"role"`
}

// UpdateUserRole changes only the role of a user, leaving the rest of the
// stored document untouched.
func UpdateUserRole(svc service.EntityService[*model.User]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req roleUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if !req.Role.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROLE", "invalid role")
		}
		updated, err := svc.UpdateFunc(c.UserContext(), id, func(u *model.User) *model.User {
			u.Role = req.Role
			return u
		})
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(updated)
	}
}
