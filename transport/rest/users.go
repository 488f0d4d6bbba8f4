package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/buzkaaclicker/avatars"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// UsersController registers local users and notifies about the outcome.
type UsersController struct {
	Store     avatars.UserStore
	Publisher avatars.Publisher
	Mailer    avatars.Mailer
	MailFrom  string
	MailTo    string
	// Zero means bcrypt.DefaultCost.
	BcryptCost int
}

func (c *UsersController) InstallTo(app fiber.Router) {
	app.Get("/api/users", c.serveHint)
	app.Post("/api/users", c.create)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type CreateUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type CreatedUser struct {
	Id    avatars.UserRegistryId `json:"id"`
	Name  string                 `json:"name"`
	Email string                 `json:"email"`
}

type CreateUserResponse struct {
	Message string      `json:"message"`
	Data    CreatedUser `json:"data"`
}

func (c *UsersController) serveHint(ctx *fiber.Ctx) error {
	return ctx.JSON(MessageResponse{
		Message: "Use the post method to create a new user, " +
			"if you want to get a user use the /api/user/{id} route",
	})
}

func (c *UsersController) create(ctx *fiber.Ctx) error {
	var req CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	exists, err := c.Store.ExistsByEmail(ctx.Context(), req.Email)
	if err != nil {
		return c.createFailed(ctx, fmt.Errorf("check email: %w", err))
	}
	if exists {
		c.publish(ctx, "User already exists with email "+req.Email)
		return fiber.NewError(fiber.StatusConflict, "User already exists")
	}

	cost := c.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return c.createFailed(ctx, fmt.Errorf("hash password: %w", err))
	}

	user, err := c.Store.Create(ctx.Context(), avatars.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, avatars.ErrEmailTaken) {
			c.publish(ctx, "User already exists with email "+req.Email)
			return fiber.NewError(fiber.StatusConflict, "User already exists")
		}
		return c.createFailed(ctx, err)
	}

	err = c.Mailer.Send(ctx.Context(), avatars.Mail{
		From:    c.MailFrom,
		To:      c.MailTo,
		Subject: "User creation",
		Text:    "User created successfully",
	})
	if err != nil {
		requestLog(ctx).WithError(err).Warningln("Could not send user creation mail.")
	}
	c.publish(ctx, "User created successfully with email "+req.Email)

	return ctx.Status(fiber.StatusCreated).JSON(CreateUserResponse{
		Message: "User created successfully",
		Data: CreatedUser{
			Id:    user.Id,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func (c *UsersController) createFailed(ctx *fiber.Ctx, err error) error {
	message := "Error while trying to create user: " + err.Error()
	c.publish(ctx, message)
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

func (c *UsersController) publish(ctx *fiber.Ctx, message string) {
	if err := c.Publisher.Publish(ctx.Context(), message); err != nil {
		requestLog(ctx).
			WithField("message", message).
			WithError(err).
			Warningln("Could not publish message.")
	}
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request body"
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" should not be empty")
		case "email":
			messages = append(messages, fe.Field()+" must be an email")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		case "eqfield":
			messages = append(messages, fe.Field()+" must match "+lowerFirst(fe.Param()))
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
