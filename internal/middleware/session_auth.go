package middleware

import (
	"errors"

	"geoboard/internal/logger"
	"geoboard/internal/models"
	"geoboard/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const playerLocal = "current_player"

// Session keys carried in the cookie-backed session.
const (
	SessionEmailKey = "user_email"
	SessionNameKey  = "user_name"
)

// LoadPlayer resolves the session's email to a player and stores it in
// the request locals for downstream handlers. Requests without a valid
// session simply continue unauthenticated; handlers that need a player
// decide between a login page and a redirect themselves.
func LoadPlayer(store *session.Store, identity *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			logger.Log.Warnf("failed to load session: %v", err)
			return c.Next()
		}

		email, _ := sess.Get(SessionEmailKey).(string)
		if email == "" {
			return c.Next()
		}

		player, err := identity.FindByEmail(email)
		if err != nil {
			if !errors.Is(err, models.ErrPlayerNotFound) {
				logger.Log.Warnf("failed to resolve session player %s: %v", email, err)
			}
			return c.Next()
		}

		c.Locals(playerLocal, player)
		return c.Next()
	}
}

// CurrentPlayer returns the authenticated player for the request, or
// nil when the request carries no valid session identity.
func CurrentPlayer(c *fiber.Ctx) *models.Player {
	player, _ := c.Locals(playerLocal).(*models.Player)
	return player
}
