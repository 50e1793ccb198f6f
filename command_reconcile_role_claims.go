package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// ReconcileRoleClaimsMessage replaces a role's claims with the desired set,
// keyed by claim type. The role is addressed by id.
type ReconcileRoleClaimsMessage struct {
	ID     string  `json:"id"`
	Claims []Claim `json:"claims"`
}

func (m ReconcileRoleClaimsMessage) Type() string { return "identity.reconcile_role_claims" }

func (m ReconcileRoleClaimsMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
	)
}

// ReconcileRoleClaimsHandler applies role claim deltas.
type ReconcileRoleClaimsHandler struct {
	reconciler *Reconciler
	logger     Logger
}

func NewReconcileRoleClaimsHandler(reconciler *Reconciler) *ReconcileRoleClaimsHandler {
	return &ReconcileRoleClaimsHandler{
		reconciler: reconciler,
		logger:     defLogger{},
	}
}

func (h *ReconcileRoleClaimsHandler) WithLogger(logger Logger) *ReconcileRoleClaimsHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ReconcileRoleClaimsHandler) Execute(ctx context.Context, msg ReconcileRoleClaimsMessage) Response {
	if err := msg.Validate(); err != nil {
		return Fail(goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	if _, err := h.reconciler.ReconcileRoleClaims(ctx, msg.ID, msg.Claims); err != nil {
		return Fail(err)
	}

	return SuccessMessage("role claims updated successfully")
}
