package storage

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/uploads", authMiddleware, func(c *fiber.Ctx) error {
		hikerID, _ := c.Locals("hiker_id").(string)
		if hikerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "hiker_id missing")
		}
		records, err := svc.ListTracks(c.Context(), hikerID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(records)
	})
}
