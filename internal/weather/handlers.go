package weather

import (
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, client *Client) {
	r.Get("/:location", func(c *fiber.Ctx) error {
		location, err := url.PathUnescape(c.Params("location"))
		if err != nil || location == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "缺少地點名稱"})
		}
		slots, err := client.Forecast(c.Context(), location)
		if err == nil {
			return c.JSON(slots)
		}
		log.Printf("weather %s: %v", location, err)
		switch {
		case errors.Is(err, ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "無法從氣象局獲取天氣資訊"})
		case errors.Is(err, ErrMalformed):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "氣象局回傳資料格式異常"})
		case errors.Is(err, ErrIncomplete):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "天氣資料欄位不完整"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "解析氣象局資料時發生錯誤"})
		}
	})
}
