package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// ReconcileUserRolesMessage replaces a principal's role assignments with the
// desired set.
type ReconcileUserRolesMessage struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (m ReconcileUserRolesMessage) Type() string { return "identity.reconcile_user_roles" }

func (m ReconcileUserRolesMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Username, validation.Required),
	)
}

// ReconcileUserRolesHandler applies role assignment deltas.
type ReconcileUserRolesHandler struct {
	reconciler *Reconciler
	logger     Logger
}

func NewReconcileUserRolesHandler(reconciler *Reconciler) *ReconcileUserRolesHandler {
	return &ReconcileUserRolesHandler{
		reconciler: reconciler,
		logger:     defLogger{},
	}
}

func (h *ReconcileUserRolesHandler) WithLogger(logger Logger) *ReconcileUserRolesHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ReconcileUserRolesHandler) Execute(ctx context.Context, msg ReconcileUserRolesMessage) Response {
	if err := msg.Validate(); err != nil {
		return Fail(goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	if _, err := h.reconciler.ReconcileRoles(ctx, msg.Username, msg.Roles); err != nil {
		return Fail(err)
	}

	return SuccessMessage("user roles updated successfully")
}
