package mapdata

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("coordinates file is not valid json")

// Source serves the static coordinate points (signal stations) drawn on
// the map. The file is read per request so it can be replaced in place.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read coordinates: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return data, nil
}

func RegisterRoutes(r fiber.Router, src *Source) {
	r.Get("/coordinates", func(c *fiber.Ctx) error {
		data, err := src.Load()
		if err != nil {
			log.Printf("map coordinates: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器錯誤"})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(data)
	})
}
