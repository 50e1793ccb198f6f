package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// ReconcileUserClaimsMessage replaces a principal's direct claims with the
// desired set, keyed by claim type.
type ReconcileUserClaimsMessage struct {
	Username string  `json:"username"`
	Claims   []Claim `json:"claims"`
}

func (m ReconcileUserClaimsMessage) Type() string { return "identity.reconcile_user_claims" }

func (m ReconcileUserClaimsMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Username, validation.Required),
	)
}

// ReconcileUserClaimsHandler applies user claim deltas.
type ReconcileUserClaimsHandler struct {
	reconciler *Reconciler
	logger     Logger
}

func NewReconcileUserClaimsHandler(reconciler *Reconciler) *ReconcileUserClaimsHandler {
	return &ReconcileUserClaimsHandler{
		reconciler: reconciler,
		logger:     defLogger{},
	}
}

func (h *ReconcileUserClaimsHandler) WithLogger(logger Logger) *ReconcileUserClaimsHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ReconcileUserClaimsHandler) Execute(ctx context.Context, msg ReconcileUserClaimsMessage) Response {
	if err := msg.Validate(); err != nil {
		return Fail(goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	if _, err := h.reconciler.ReconcileUserClaims(ctx, msg.Username, msg.Claims); err != nil {
		return Fail(err)
	}

	return SuccessMessage("user claims updated successfully")
}
