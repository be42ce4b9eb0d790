package utils

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// ClientIP prefers the first X-Forwarded-For hop when behind a proxy.
func ClientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	return c.IP()
}

const maxDeviceLen = 255

// Device returns the raw user agent, trimmed to fit the login history column.
func Device(c *fiber.Ctx) string {
	ua := c.Get(fiber.HeaderUserAgent)
	if len(ua) <= maxDeviceLen {
		return ua
	}
	cut := maxDeviceLen
	for cut > 0 && !utf8.RuneStart(ua[cut]) {
		cut--
	}
	return strings.Clone(ua[:cut])
}
