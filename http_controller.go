package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the session authentication endpoints:
//
//	POST   /users           register
//	POST   /sessions        login (sets the session cookie)
//	DELETE /sessions        logout
//	GET    /profile         whoami for the presented session
//	POST   /reset_password  request a reset token
//	PUT    /reset_password  consume a reset token
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Users, controller.RegistrationCreate).
		SetName("users.register")

	app.Post(controller.Routes.Sessions, controller.LoginPost).
		SetName("sessions.login")
	app.Delete(controller.Routes.Sessions, controller.LogOut).
		SetName("sessions.logout")

	app.Get(controller.Routes.Profile, controller.ProfileShow).
		SetName("profile.get")

	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.request")
	app.Put(controller.Routes.PasswordReset, controller.PasswordResetExecute).
		SetName("pwd-reset.update")
}

type AuthControllerRoutes struct {
	Users         string
	Sessions      string
	Profile       string
	PasswordReset string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	Config Config
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Config: defConfig{},
		Routes: &AuthControllerRoutes{
			Users:         "/users",
			Sessions:      "/sessions",
			Profile:       "/profile",
			PasswordReset: "/reset_password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// RegistrationCreatePayload is the register payload
type RegistrationCreatePayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": "malformed payload",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": err.Error(),
		})
	}

	if a.Debug {
		a.Logger.Debug("registration payload: %s", print.MaybePrettyJSON(router.ViewContext{
			"email": payload.Email,
		}))
	}

	user, err := a.Auther.Register(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		if IsEmailAlreadyExists(err) {
			return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
				"message": "email already registered",
			})
		}
		a.Logger.Error("register user: ", "error", err)
		return ctx.JSON(fiber.StatusInternalServerError, router.ViewContext{
			"message": "internal error",
		})
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"email":   user.Email,
		"message": "user created",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": "malformed payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": err.Error(),
		})
	}

	if ok := a.Auther.Login(ctx.Context(), payload.Email, payload.Password); !ok {
		return ctx.JSON(fiber.StatusUnauthorized, router.ViewContext{
			"message": "invalid credentials",
		})
	}

	token := a.Auther.CreateSession(ctx.Context(), payload.Email)
	if token == "" {
		// login raced a store failure; fail closed
		return ctx.JSON(fiber.StatusUnauthorized, router.ViewContext{
			"message": "invalid credentials",
		})
	}

	setSessionCookie(ctx, a.Config, token)

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"email":   payload.Email,
		"message": "logged in",
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	token := SessionTokenFromRequest(ctx, a.Config)

	user := a.Auther.ResolveSession(ctx.Context(), token)
	if user == nil {
		return ctx.JSON(fiber.StatusForbidden, router.ViewContext{
			"message": "forbidden",
		})
	}

	a.Auther.DestroySession(ctx.Context(), user.ID)
	clearSessionCookie(ctx, a.Config)

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"message": "logged out",
	})
}

func (a *AuthController) ProfileShow(ctx router.Context) error {
	token := SessionTokenFromRequest(ctx, a.Config)

	user := a.Auther.ResolveSession(ctx.Context(), token)
	if user == nil {
		return ctx.JSON(fiber.StatusForbidden, router.ViewContext{
			"message": "forbidden",
		})
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"email": user.Email,
	})
}

// PasswordResetRequestPayload holds values for password reset
type PasswordResetRequestPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r PasswordResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(PasswordResetRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": "malformed payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": err.Error(),
		})
	}

	token, err := a.Auther.RequestPasswordReset(ctx.Context(), payload.Email)
	if err != nil {
		if IsUserNotFound(err) {
			return ctx.JSON(fiber.StatusForbidden, router.ViewContext{
				"message": "forbidden",
			})
		}
		a.Logger.Error("password reset request: ", "error", err)
		return ctx.JSON(fiber.StatusInternalServerError, router.ViewContext{
			"message": "internal error",
		})
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"email":       payload.Email,
		"reset_token": token,
	})
}

// PasswordResetExecutePayload consumes a reset token
type PasswordResetExecutePayload struct {
	Email       string `form:"email" json:"email"`
	ResetToken  string `form:"reset_token" json:"reset_token"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will validate the payload
func (r PasswordResetExecutePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ResetToken, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
	)
}

func (a *AuthController) PasswordResetExecute(ctx router.Context) error {
	payload := new(PasswordResetExecutePayload)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": "malformed payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, router.ViewContext{
			"message": err.Error(),
		})
	}

	if err := a.Auther.CompletePasswordReset(ctx.Context(), payload.ResetToken, payload.NewPassword); err != nil {
		if IsInvalidResetToken(err) {
			return ctx.JSON(fiber.StatusForbidden, router.ViewContext{
				"message": "forbidden",
			})
		}
		a.Logger.Error("password reset execute: ", "error", err)
		return ctx.JSON(fiber.StatusInternalServerError, router.ViewContext{
			"message": "internal error",
		})
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"email":   payload.Email,
		"message": "Password updated",
	})
}
