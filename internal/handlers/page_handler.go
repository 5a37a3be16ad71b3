package handlers

import (
	"errors"
	"net/url"
	"strings"

	"geoboard/internal/logger"
	"geoboard/internal/middleware"
	"geoboard/internal/models"
	"geoboard/internal/monitor"
	"geoboard/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// PageHandler serves the server-rendered pages: leaderboard, score
// submission, and the register/login/logout flow.
type PageHandler struct {
	identity   *services.IdentityService
	scoreboard *services.ScoreboardService
	store      *session.Store
	validate   *validator.Validate
	mon        *monitor.Monitor
}

// NewPageHandler creates a new PageHandler. mon may be nil.
func NewPageHandler(identity *services.IdentityService, scoreboard *services.ScoreboardService, store *session.Store, mon *monitor.Monitor) *PageHandler {
	return &PageHandler{
		identity:   identity,
		scoreboard: scoreboard,
		store:      store,
		validate:   validator.New(),
		mon:        mon,
	}
}

// RegisterRoutes registers the page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleLeaderboardPage)
	router.Get("/submit", h.HandleSubmitForm)
	router.Post("/submit", h.HandleSubmitPost)
	router.Get("/register", h.HandleRegisterForm)
	router.Post("/register", h.HandleRegisterPost)
	router.Get("/login", h.HandleLoginForm)
	router.Post("/login", h.HandleLoginPost)
	router.Get("/logout", h.HandleLogout)
}

// HandleLeaderboardPage renders all three leaderboard windows, with a
// confirmation banner after a successful submission (?saved=1).
func (h *PageHandler) HandleLeaderboardPage(c *fiber.Ctx) error {
	rowsAll, err := h.scoreboard.Leaderboard(models.PeriodAll)
	if err != nil {
		return h.renderError(c, err)
	}
	rowsWeek, err := h.scoreboard.Leaderboard(models.PeriodWeek)
	if err != nil {
		return h.renderError(c, err)
	}
	rowsToday, err := h.scoreboard.Leaderboard(models.PeriodToday)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.Render("leaderboard", fiber.Map{
		"RowsAll":   rowsAll,
		"RowsWeek":  rowsWeek,
		"RowsToday": rowsToday,
		"Saved":     c.Query("saved") == "1",
		"Me":        middleware.CurrentPlayer(c),
	})
}

// HandleSubmitForm renders the submission form. Unauthenticated
// visitors get the login-required page; players who already submitted
// today see the daily limit notice instead of the form.
func (h *PageHandler) HandleSubmitForm(c *fiber.Ctx) error {
	me := middleware.CurrentPlayer(c)
	if me == nil {
		return c.Render("login_required", fiber.Map{})
	}

	limitReached := c.Query("limit") == "1"
	if !limitReached {
		already, err := h.scoreboard.HasSubmittedToday(me.ID)
		if err != nil {
			return h.renderError(c, err)
		}
		limitReached = already
	}

	return c.Render("submit", fiber.Map{
		"Me":           me,
		"LimitReached": limitReached,
	})
}

type submitForm struct {
	Round1 int `form:"round1"`
	Round2 int `form:"round2"`
	Round3 int `form:"round3"`
}

// HandleSubmitPost records a submission for the logged-in player.
func (h *PageHandler) HandleSubmitPost(c *fiber.Ctx) error {
	me := middleware.CurrentPlayer(c)
	if me == nil {
		return c.Redirect("/login?next=%2Fsubmit", fiber.StatusSeeOther)
	}

	var form submitForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Scores must be integers")
	}

	_, err := h.scoreboard.SubmitEntry(me, form.Round1, form.Round2, form.Round3)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDailyLimitReached):
			return c.Redirect("/submit?limit=1", fiber.StatusSeeOther)
		case errors.Is(err, models.ErrScoreOutOfRange):
			return c.Status(fiber.StatusBadRequest).SendString("Scores must be between 0 and 5000")
		default:
			return h.renderError(c, err)
		}
	}

	return c.Redirect("/?saved=1", fiber.StatusSeeOther)
}

// HandleRegisterForm renders the registration form, optionally
// prefilled with an email handed over from a failed login.
func (h *PageHandler) HandleRegisterForm(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{
		"Email": c.Query("email"),
	})
}

type registerForm struct {
	Email string `form:"email" validate:"required,email"`
	Name  string `form:"name" validate:"required,min=1,max=80"`
}

// HandleRegisterPost creates or updates the player identity for the
// submitted email/name pair and establishes the session.
func (h *PageHandler) HandleRegisterPost(c *fiber.Ctx) error {
	var form registerForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid registration form")
	}
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Email": form.Email,
			"Error": "A valid email and a name of 1-80 characters are required",
		})
	}

	player, err := h.identity.Upsert(form.Email, form.Name)
	if err != nil {
		return h.renderError(c, err)
	}
	if h.mon != nil {
		h.mon.IncPlayerRegistered()
	}

	if err := h.establishSession(c, player); err != nil {
		return h.renderError(c, err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleLoginForm renders the login form.
func (h *PageHandler) HandleLoginForm(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Next": c.Query("next"),
	})
}

type loginForm struct {
	Email string `form:"email" validate:"required,email"`
}

// HandleLoginPost establishes a session for a known email. Unknown
// emails are sent to registration with the email carried over.
func (h *PageHandler) HandleLoginPost(c *fiber.Ctx) error {
	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid login form")
	}
	form.Email = strings.TrimSpace(form.Email)

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Next":  c.Query("next"),
			"Error": "A valid email is required",
		})
	}

	player, err := h.identity.FindByEmail(form.Email)
	if err != nil {
		if errors.Is(err, models.ErrPlayerNotFound) {
			return c.Redirect("/register?email="+url.QueryEscape(form.Email), fiber.StatusSeeOther)
		}
		return h.renderError(c, err)
	}

	if err := h.establishSession(c, player); err != nil {
		return h.renderError(c, err)
	}

	next := c.Query("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// HandleLogout clears the session.
func (h *PageHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if destroyErr := sess.Destroy(); destroyErr != nil {
			logger.Log.Warnf("failed to destroy session: %v", destroyErr)
		}
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *PageHandler) establishSession(c *fiber.Ctx, player *models.Player) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(middleware.SessionEmailKey, player.EmailValue())
	sess.Set(middleware.SessionNameKey, player.Name)
	return sess.Save()
}

func (h *PageHandler) renderError(c *fiber.Ctx, err error) error {
	logger.Log.Errorf("page request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong")
}
