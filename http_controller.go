package identity

import (
	"fmt"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Controller exposes the command surface over HTTP as JSON endpoints. Routes
// mirror the command set: token issuance plus the three reconciliation call
// sites. Authorization (callers of the reconciliation routes must hold the
// admin role) is a boundary concern: hosts attach their guard middleware when
// registering routes.
type Controller struct {
	Debug      bool
	Logger     Logger
	Login      *LoginHandler
	UserRoles  *ReconcileUserRolesHandler
	UserClaims *ReconcileUserClaimsHandler
	RoleClaims *ReconcileRoleClaimsHandler
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// NewController wires the command handlers for the given issuer and
// reconciler.
func NewController(issuer TokenIssuer, reconciler *Reconciler, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:     defLogger{},
		Login:      NewLoginHandler(issuer),
		UserRoles:  NewReconcileUserRolesHandler(reconciler),
		UserClaims: NewReconcileUserClaimsHandler(reconciler),
		RoleClaims: NewReconcileRoleClaimsHandler(reconciler),
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterIdentityRoutes mounts the command surface. adminGuard wraps the
// reconciliation routes; pass the host's admin-role middleware.
func RegisterIdentityRoutes[T any](app router.Router[T], controller *Controller, adminGuard ...router.MiddlewareFunc) {
	app.Post("/auth/token", controller.LoginPost).SetName("identity.token.post")

	app.Put("/users/roles", controller.UserRolesPut, adminGuard...).SetName("identity.user-roles.put")
	app.Put("/users/claims", controller.UserClaimsPut, adminGuard...).SetName("identity.user-claims.put")
	app.Put("/roles/claims", controller.RoleClaimsPut, adminGuard...).SetName("identity.role-claims.put")
}

func (c *Controller) LoginPost(ctx router.Context) error {
	payload := new(LoginMessage)
	if err := ctx.Bind(payload); err != nil {
		return c.badRequest(ctx, err)
	}

	if c.Debug {
		fmt.Println(print.MaybePrettyJSON(map[string]string{"username": payload.Username}))
	}

	res := c.Login.Execute(ctx.Context(), *payload)
	return ctx.JSON(res.Code, res)
}

func (c *Controller) UserRolesPut(ctx router.Context) error {
	payload := new(ReconcileUserRolesMessage)
	if err := ctx.Bind(payload); err != nil {
		return c.badRequest(ctx, err)
	}

	res := c.UserRoles.Execute(ctx.Context(), *payload)
	return ctx.JSON(res.Code, res)
}

func (c *Controller) UserClaimsPut(ctx router.Context) error {
	payload := new(ReconcileUserClaimsMessage)
	if err := ctx.Bind(payload); err != nil {
		return c.badRequest(ctx, err)
	}

	res := c.UserClaims.Execute(ctx.Context(), *payload)
	return ctx.JSON(res.Code, res)
}

func (c *Controller) RoleClaimsPut(ctx router.Context) error {
	payload := new(ReconcileRoleClaimsMessage)
	if err := ctx.Bind(payload); err != nil {
		return c.badRequest(ctx, err)
	}

	res := c.RoleClaims.Execute(ctx.Context(), *payload)
	return ctx.JSON(res.Code, res)
}

func (c *Controller) badRequest(ctx router.Context, err error) error {
	c.Logger.Error("failed to bind request payload", "error", err)
	return ctx.JSON(router.StatusBadRequest, Response{
		Successful: false,
		Code:       router.StatusBadRequest,
		Message:    "unable to parse request payload",
	})
}
