package handler

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
)

// SwaggerUI serves the API docs with host and scheme taken from the request.
// info is shared by every request, so rendering is serialized.
func SwaggerUI(info *swag.Spec) fiber.Handler {
	var mu sync.Mutex
	serve := swagger.New(swagger.Config{InstanceName: info.InstanceName()})

	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		mu.Lock()
		defer mu.Unlock()

		info.Host = c.Get(fiber.HeaderHost)
		info.Schemes = []string{scheme}

		return serve(c)
	}
}
