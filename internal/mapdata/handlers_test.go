package mapdata

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map_coord.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestCoordinates(t *testing.T) {
	content := `[{"name":"向陽山屋","lat":23.28,"lng":120.99}]`
	app := fiber.New()
	RegisterRoutes(app.Group("/map"), NewSource(writeFile(t, content)))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/map/coordinates", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("coordinates status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != content {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestCoordinatesErrors(t *testing.T) {
	for _, path := range []string{filepath.Join(t.TempDir(), "missing.json"), writeFile(t, "{broken")} {
		app := fiber.New()
		RegisterRoutes(app.Group("/map"), NewSource(path))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/map/coordinates", nil))
		if err != nil || resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("expected 500 for %s: %v", path, err)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := NewSource(writeFile(t, "nope")).Load(); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}
