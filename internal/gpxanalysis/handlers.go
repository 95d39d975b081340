package gpxanalysis

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts POST /gpxanalyzer. Failures answer with a
// {"message": ...} body rather than fiber's plain-text errors.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/gpxanalyzer", authMiddleware, func(c *fiber.Ctx) error {
		fh, err := c.FormFile("gpxFile")
		if err != nil {
			return message(c, fiber.StatusBadRequest, "沒有找到上傳的檔案")
		}
		if fh.Filename == "" {
			return message(c, fiber.StatusBadRequest, "沒有選擇檔案")
		}
		if fh.Size == 0 {
			return message(c, fiber.StatusBadRequest, "上傳的檔案是空的")
		}

		f, err := fh.Open()
		if err != nil {
			return message(c, fiber.StatusInternalServerError, "無法讀取上傳的檔案")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return message(c, fiber.StatusInternalServerError, "無法讀取上傳的檔案")
		}

		hikerID, _ := c.Locals("hiker_id").(string)
		res, err := svc.Analyze(c.Context(), Upload{
			Data:     data,
			FileName: fh.Filename,
			HikerID:  hikerID,
			TrailID:  c.FormValue("trailId"),
		})
		if err != nil {
			log.Printf("GPX 解析錯誤: %v", err)
			var perr *ParseError
			if errors.As(err, &perr) {
				return message(c, fiber.StatusInternalServerError, "GPX 檔案解析失敗: "+perr.Error())
			}
			return message(c, fiber.StatusInternalServerError, "伺服器錯誤")
		}
		return c.JSON(res)
	})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
