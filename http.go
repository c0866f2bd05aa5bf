package authflow

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/hakbeom/go-authflow/middleware/guard"
)

// Operation identifiers used by the access policy registry. Route
// registration binds each protected route to one of these; the guard
// consults the policy with the same identifier.
const (
	OperationProfileRead = "profile.read"
	OperationUsersList   = "users.list"
)

// RefreshCookieName is where the refresh token travels. The access token is
// returned in the response body and lives with the client.
const RefreshCookieName = "refresh_token"

// HTTPController is the thin transport layer over the credential and
// ephemeral-token engine. It parses requests, invokes the core, and maps
// typed errors to status codes; it holds no business rules of its own.
type HTTPController struct {
	Auther       Authenticator
	Tokens       TokenService
	Verification *VerificationFlow
	Reset        *PasswordResetFlow
	Register     *RegisterUserHandler
	Users        UserStore
	Policy       *AccessPolicy
	Config       Config
	Logger       Logger
}

// HTTPControllerOption mutates the controller during construction.
type HTTPControllerOption func(*HTTPController)

// NewHTTPController builds a controller with defaults applied.
func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Policy: NewAccessPolicy(),
		Config: SimpleConfig{},
		Logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// RegisterRoutes mounts the auth surface on the app. Protected routes
// declare their operation id and required roles here, in one place, and the
// guard middleware enforces them.
func (ctrl *HTTPController) RegisterRoutes(app *fiber.App) {
	ctrl.Policy.
		Require(OperationProfileRead).
		Require(OperationUsersList, RoleAdmin)

	app.Post("/auth/login", ctrl.Login)
	app.Post("/auth/logout", ctrl.Logout)
	app.Post("/users/signup", ctrl.Signup)
	app.Post("/auth/email/send-code", ctrl.SendCode)
	app.Post("/auth/email/verify-code", ctrl.VerifyCode)
	app.Post("/auth/password/reset-request", ctrl.ResetRequest)
	app.Post("/auth/password/reset", ctrl.ResetExecute)

	guardCfg := guard.Config{
		Validator:  GuardValidator(ctrl.Tokens),
		Policy:     ctrl.Policy,
		ContextKey: ctrl.Config.GetContextKey(),
		AuthScheme: ctrl.Config.GetAuthScheme(),
	}

	app.Get("/auth/me", guard.Protect(guardCfg, OperationProfileRead), ctrl.Me)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// Login verifies credentials and returns the access token; the refresh token
// travels in an HttpOnly cookie.
func (ctrl *HTTPController) Login(c *fiber.Ctx) error {
	payload := loginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	pair, err := ctrl.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return ctrl.writeError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(ctrl.Config.GetRefreshTokenTTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	return c.JSON(fiber.Map{"access_token": pair.AccessToken})
}

// Logout clears the refresh cookie. Tokens are stateless, nothing is revoked
// server side.
func (ctrl *HTTPController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

type signupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p signupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
	)
}

func (ctrl *HTTPController) Signup(c *fiber.Ctx) error {
	payload := signupPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	var created *User
	msg := RegisterUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(user *User) {
			created = user
		},
	}

	if err := ctrl.Register.Execute(c.Context(), msg); err != nil {
		return ctrl.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    created.ID,
		"email": created.Email,
	})
}

type sendCodePayload struct {
	Email string `json:"email"`
}

func (p sendCodePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

func (ctrl *HTTPController) SendCode(c *fiber.Ctx) error {
	payload := sendCodePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	if err := ctrl.Verification.RequestCode(c.Context(), payload.Email); err != nil {
		return ctrl.writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "verification code sent"})
}

type verifyCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (p verifyCodePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (ctrl *HTTPController) VerifyCode(c *fiber.Ctx) error {
	payload := verifyCodePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	if err := ctrl.Verification.CheckCode(c.Context(), payload.Email, payload.Code); err != nil {
		return ctrl.writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "email verified"})
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

func (p resetRequestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

func (ctrl *HTTPController) ResetRequest(c *fiber.Ctx) error {
	payload := resetRequestPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	token, err := ctrl.Reset.RequestReset(c.Context(), payload.Email)
	if err != nil {
		return ctrl.writeError(c, err)
	}

	return c.JSON(fiber.Map{"reset_token": token})
}

type resetExecutePayload struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

func (p resetExecutePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ResetToken, validation.Required, is.UUID),
		validation.Field(&p.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}

func (ctrl *HTTPController) ResetExecute(c *fiber.Ctx) error {
	payload := resetExecutePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, err)
	}
	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err)
	}

	if err := ctrl.Reset.ResetPassword(c.Context(), payload.ResetToken, payload.NewPassword); err != nil {
		return ctrl.writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "password updated"})
}

// Me returns the identity the guard decoded for this request. The claims are
// read back from the request locals, decoded exactly once by the middleware.
func (ctrl *HTTPController) Me(c *fiber.Ctx) error {
	claims, err := guard.ClaimsFromCtx(c, ctrl.Config.GetContextKey())
	if err != nil {
		return ctrl.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":    claims.UserID(),
		"email": claims.UserEmail(),
		"roles": claims.UserRoles(),
	})
}

func (ctrl *HTTPController) badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// writeError maps the core's typed outcomes onto HTTP statuses. Transient
// failures surface as 500 without leaking detail.
func (ctrl *HTTPController) writeError(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		rich = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := rich.Code
	if status == 0 || IsTransient(rich) {
		status = fiber.StatusInternalServerError
	}

	ctrl.Logger.Debug(
		"request failed",
		"error", rich.Message,
		"category", rich.Category,
		"status", status,
	)

	body := fiber.Map{"error": rich.Message}
	if rich.TextCode != "" {
		body["text_code"] = rich.TextCode
	}
	if IsTransient(rich) {
		body = fiber.Map{"error": "service temporarily unavailable"}
	}

	return c.Status(status).JSON(body)
}

// GuardValidator adapts a TokenService to the guard middleware's mirrored
// validator interface.
func GuardValidator(ts TokenService) guard.TokenValidator {
	return guardValidator{ts: ts}
}

type guardValidator struct {
	ts TokenService
}

func (v guardValidator) Validate(tokenString string) (guard.AuthClaims, error) {
	claims, err := v.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	guardClaims, ok := claims.(guard.AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	return guardClaims, nil
}
