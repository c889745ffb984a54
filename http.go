package gateway

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// SessionLocalsKey is where the token middleware parks the caller session.
const SessionLocalsKey = "gateway_session"

// HTTPController exposes the five operations over fiber. Transport-level
// token failures degrade to an anonymous caller instead of propagating; the
// individual operations decide what an absent identity means.
type HTTPController struct {
	Debug     bool
	Logger    Logger
	Registry  *Registry
	Auth      *Authenticator
	Verifier  *Verifier
	Resources *ResourceGateway
	Tokens    TokenService
}

// NewHTTPController wires the orchestrators behind the HTTP boundary.
func NewHTTPController(registry *Registry, auth *Authenticator, verifier *Verifier, resources *ResourceGateway, tokens TokenService) *HTTPController {
	return &HTTPController{
		Logger:    defLogger{},
		Registry:  registry,
		Auth:      auth,
		Verifier:  verifier,
		Resources: resources,
		Tokens:    tokens,
	}
}

// RegisterRoutes mounts the middleware and operation routes on the app.
func (h *HTTPController) RegisterRoutes(app *fiber.App) {
	app.Use(h.TokenMiddleware())

	app.Post("/register", h.RegisterPost)
	app.Post("/login", h.LoginPost)
	app.Post("/verify", h.VerifyPost)
	app.Get("/dummy/:id", h.DummyGet)
	app.Post("/dummy", h.DummyPost)
}

// TokenMiddleware resolves the bearer token into a Session in Locals. An
// absent, malformed, or expired token leaves the request anonymous and the
// request proceeds; authorization happens per operation.
func (h *HTTPController) TokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if raw == "" {
			return c.Next()
		}

		raw = strings.TrimPrefix(raw, "Bearer ")

		claims, err := h.Tokens.Validate(raw)
		if err != nil {
			h.Logger.Debug("token rejected, proceeding unauthenticated", "error", err)
			return c.Next()
		}

		session := sessionFromClaims(claims)
		c.Locals(SessionLocalsKey, session)
		c.SetUserContext(WithSession(c.UserContext(), session))
		return c.Next()
	}
}

// SessionFromCtx returns the caller session the middleware resolved, nil for
// anonymous requests.
func SessionFromCtx(c *fiber.Ctx) *Session {
	session, ok := c.Locals(SessionLocalsKey).(*Session)
	if !ok {
		return nil
	}
	return session
}

func (h *HTTPController) RegisterPost(c *fiber.Ctx) error {
	payload := RegisterInput{}
	if err := c.BodyParser(&payload); err != nil {
		return h.renderError(c, ErrorList{{Message: "Invalid payload", Code: WireCodeInvalidEmail}})
	}

	if h.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	result, err := h.Registry.Register(c.Context(), payload)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(result)
}

func (h *HTTPController) LoginPost(c *fiber.Ctx) error {
	payload := LoginInput{}
	if err := c.BodyParser(&payload); err != nil {
		return h.renderError(c, ErrorList{{Message: "Invalid payload", Code: WireCodeInvalidEmail}})
	}

	result, err := h.Auth.Login(c.Context(), payload)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(result)
}

// VerifyCodePayload is the second-factor submission.
type VerifyCodePayload struct {
	Code string `json:"code" form:"code"`
}

func (h *HTTPController) VerifyPost(c *fiber.Ctx) error {
	payload := VerifyCodePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return h.renderError(c, ErrNotFound)
	}

	result, err := h.Verifier.VerifyCode(c.Context(), SessionFromCtx(c), payload.Code)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(result)
}

func (h *HTTPController) DummyGet(c *fiber.Ctx) error {
	record, err := h.Resources.GetDummy(c.Context(), SessionFromCtx(c), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(record)
}

// InsertDummyPayload is the resource creation body.
type InsertDummyPayload struct {
	Text string `json:"text" form:"text"`
}

func (h *HTTPController) DummyPost(c *fiber.Ctx) error {
	payload := InsertDummyPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return h.renderError(c, ErrResourceCreateFailed)
	}

	record, err := h.Resources.InsertDummy(c.Context(), SessionFromCtx(c), payload.Text)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(record)
}

func (h *HTTPController) renderError(c *fiber.Ctx, err error) error {
	list := AsErrorList(err)

	body := fiber.Map{"errors": list}
	if qr, ok := ErrorMetadata(err, "qrcode"); ok {
		body["qrcode"] = qr
	}

	return c.Status(httpStatusFor(list)).JSON(body)
}

func httpStatusFor(list ErrorList) int {
	if len(list) == 0 {
		return fiber.StatusInternalServerError
	}

	switch list[0].Code {
	case WireCodeUnauthorized:
		return fiber.StatusUnauthorized
	case WireCodeNotFound:
		return fiber.StatusNotFound
	case WireCodeCreateFailed:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
