package tiles

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type downloadRequest struct {
	Tiles []Coord `json:"tiles"`
}

func RegisterRoutes(r fiber.Router, d *Downloader) {
	r.Post("/download", func(c *fiber.Ctx) error {
		var req downloadRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "未提供圖磚座標"})
		}

		archive, failures, err := d.Download(c.Context(), req.Tiles)
		switch {
		case errors.Is(err, ErrNoTiles):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "未提供圖磚座標"})
		case errors.Is(err, ErrTooMany):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "單次請求圖磚數量過多，請縮小範圍或分批下載"})
		case errors.Is(err, ErrAllFailed):
			log.Printf("全部圖磚下載失敗: %v", failures)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "圖磚全部下載失敗，請稍後再試。", "errors": failures})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "伺服器錯誤", "error": err.Error()})
		}

		c.Set(fiber.HeaderContentType, "application/zip")
		c.Attachment("tiles.zip")
		return c.Send(archive)
	})
}
