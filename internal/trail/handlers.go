package trail

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		trails, err := svc.List(c.Context())
		if err != nil {
			log.Printf("list trails: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器錯誤", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"trails": trails})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		fc, err := svc.Detail(c.Context(), c.Params("id"))
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "找不到該步道"})
		}
		if err != nil {
			log.Printf("trail %s: %v", c.Params("id"), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器錯誤", "error": err.Error()})
		}
		return c.JSON(fc)
	})
}
