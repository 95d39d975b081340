package tiles

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func postTiles(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tiles/download", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestTilesHandler(t *testing.T) {
	srv := tileServer(t, nil)
	app := fiber.New()
	RegisterRoutes(app.Group("/tiles"), NewDownloader(srv.Client(), srv.URL+"/{z}/{x}/{y}.png", "ua", 2, 0, 2))

	resp := postTiles(t, app, `{"tiles":[{"z":15,"x":1,"y":2}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("unexpected content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if files := readZip(t, data); len(files) != 1 {
		t.Fatalf("unexpected zip %v", files)
	}

	cases := []struct {
		body string
		code int
	}{
		{`{"tiles":[]}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"tiles":[{"z":1,"x":1,"y":1},{"z":1,"x":1,"y":2},{"z":1,"x":1,"y":3}]}`, http.StatusBadRequest},
		{`{"tiles":[{"z":1,"x":0,"y":1}]}`, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if resp := postTiles(t, app, tc.body); resp.StatusCode != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.code, resp.StatusCode)
		}
	}

	resp = postTiles(t, app, `{"tiles":[{"z":1,"x":0,"y":1}]}`)
	var body struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message != "圖磚全部下載失敗，請稍後再試。" || len(body.Errors) != 1 {
		t.Fatalf("unexpected failure body %+v", body)
	}
}
