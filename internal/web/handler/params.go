package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParseID parses a decimal id. Signs, blanks and anything else that is not
// a plain number are rejected.
func ParseID(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// QueryID parses the query parameter key as an id.
func QueryID(c *fiber.Ctx, key string) (uint64, bool) {
	return ParseID(c.Query(key))
}

// Confirmed reports whether the request carries confirm=1. Non numeric values
// count as not confirmed.
func Confirmed(c *fiber.Ctx) bool {
	n, ok := ParseID(c.Query("confirm"))
	return ok && n == 1
}
