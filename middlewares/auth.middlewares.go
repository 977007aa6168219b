package middlewares

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/global"
	"SOCIAL_server/helpers"
	"crypto/rsa"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Authenticate authenticates the access token and exposes its user id as "userid"
func Authenticate(key *rsa.PublicKey) fiber.Handler {
	return func(c *fiber.Ctx) error {

		authorization := string(c.Request().Header.Peek("Authorization"))
		accessToken := strings.TrimPrefix(authorization, "Bearer ")
		if accessToken == "" || accessToken == authorization {
			return errors.HandleUnauthorizedError(c)
		}

		userID, err := helpers.ParseJWT(key, accessToken)
		if err != nil {
			entry := global.MonitorLogger.WithFields(logrus.Fields{
				"ip":   c.IP(),
				"path": c.Path(),
			})
			if errors.Is(err, helpers.ErrTokenExpired) {
				entry.Info("Unauthorized; access token expired")
			} else {
				entry.Warn("Unauthorized; " + err.Error())
			}
			return errors.HandleUnauthorizedError(c)
		}

		c.Locals("userid", userID)
		return c.Next()
	}
}

// SubjectID returns the authenticated user of the request
func SubjectID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userid").(string)
	return userID
}
