package livestock

import (
	"errors"

	"github.com/Nogthings/befosa-software/internal/apierror"
	"github.com/Nogthings/befosa-software/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// toHTTP maps workflow failures onto the API error envelope. Anything not
// recognised is returned as is and ends up as a generic 500.
func toHTTP(err error) error {
	switch {
	case errors.Is(err, ErrNoAnimals):
		return apierror.New(fiber.StatusBadRequest, "no_animals", "At least one animal is required.")
	case errors.Is(err, ErrInvalidAnimal):
		return apierror.New(fiber.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, ErrClientNotFound):
		return apierror.New(fiber.StatusBadRequest, "client_not_found", err.Error())
	case errors.Is(err, ErrDuplicateTag):
		return apierror.New(fiber.StatusConflict, "duplicate_tag", err.Error())
	case errors.Is(err, ErrAnimalNotFound):
		return apierror.New(fiber.StatusInternalServerError, "animal_not_found", err.Error())
	case errors.Is(err, ErrAnimalNotInStock):
		return apierror.New(fiber.StatusInternalServerError, "animal_not_in_stock", err.Error())
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrExitNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// POST /api/entries
func CreateEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.EntryData != nil && len(body.Animals) == 0 {
			return toHTTP(ErrNoAnimals)
		}
		if err := apierror.Validate(&body); err != nil {
			return err
		}

		entry, err := svc.CreateEntry(c.UserContext(), auth.CurrentActor(c), body)
		if err != nil {
			return toHTTP(err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/entries
func ListEntriesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := svc.ListEntries(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(entries)
	}
}

// GET /api/entries/:id
func GetEntryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		entry, err := svc.GetEntry(c.UserContext(), id)
		if err != nil {
			return toHTTP(err)
		}
		return c.JSON(entry)
	}
}

// POST /api/exits
func CreateExitHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ExitData != nil && len(body.Animals) == 0 {
			return toHTTP(ErrNoAnimals)
		}
		if err := apierror.Validate(&body); err != nil {
			return err
		}

		exit, err := svc.CreateExit(c.UserContext(), auth.CurrentActor(c), body)
		if err != nil {
			return toHTTP(err)
		}
		return c.Status(fiber.StatusCreated).JSON(exit)
	}
}

// GET /api/exits
func ListExitsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		exits, err := svc.ListExits(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(exits)
	}
}

// GET /api/exits/:id
func GetExitHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		exit, err := svc.GetExit(c.UserContext(), id)
		if err != nil {
			return toHTTP(err)
		}
		return c.JSON(exit)
	}
}

// GET /api/animals/instock
func ListInStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		animals, err := svc.ListInStock(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(animals)
	}
}

// GET /api/animals/instock/export
func ExportInStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		animals, err := svc.ListInStock(c.UserContext())
		if err != nil {
			return err
		}
		buf, err := InStockWorkbook(animals)
		if err != nil {
			return err
		}

		c.Attachment("inventario.xlsx")
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}
