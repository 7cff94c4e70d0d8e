package studio

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(Response{
		Success: true,
		Data:    Health{Status: "ok", Database: s.service.DatabaseName()},
	})
}

func (s *Server) handleGetCollections(c *fiber.Ctx) error {
	collections, err := s.service.GetCollections(c.UserContext())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(Response{Success: true, Data: collections})
}

func (s *Server) handleGetDocuments(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return fail(c, fiber.StatusBadRequest, "collection name is required")
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid page")
	}
	limit, err := queryInt(c, "limit", DefaultLimit)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid limit")
	}

	result, err := s.service.GetDocuments(c.UserContext(), name, page, limit)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(Response{Success: true, Data: result})
}

func (s *Server) handleCountDocuments(c *fiber.Ctx) error {
	name := c.Params("name")
	count, err := s.service.CountDocuments(c.UserContext(), name)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(Response{Success: true, Data: fiber.Map{"collection": name, "count": count}})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
