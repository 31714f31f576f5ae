package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

// TestExportRateLimiterBlocksAfterMax verifies the export class rejects
// requests beyond its per-window maximum with a 429.
func TestExportRateLimiterBlocksAfterMax(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.ExportMax = 2
	config.ExportExpiration = 1 * time.Minute

	app := fiber.New()
	app.Get("/export/course", ExportRateLimiter(config), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < config.ExportMax; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/export/course", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/export/course", nil))
	if err != nil {
		t.Fatalf("over-limit request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("expected 429 after %d requests, got %d", config.ExportMax, resp.StatusCode)
	}
}

// TestLoadRateLimitConfigExportOverride verifies the RATE_LIMIT_EXPORT
// environment variable tunes the export class.
func TestLoadRateLimitConfigExportOverride(t *testing.T) {
	t.Setenv("RATE_LIMIT_EXPORT", "3")

	config := LoadRateLimitConfig()
	if config.ExportMax != 3 {
		t.Errorf("expected ExportMax 3, got %d", config.ExportMax)
	}
}
