package identity

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// LoginMessage carries a credential pair for token issuance.
type LoginMessage struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (m LoginMessage) Type() string { return "identity.login" }

func (m LoginMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Username, validation.Required),
		validation.Field(&m.Password, validation.Required),
	)
}

// LoginHandler issues tokens for valid credentials.
type LoginHandler struct {
	issuer TokenIssuer
	logger Logger
}

func NewLoginHandler(issuer TokenIssuer) *LoginHandler {
	return &LoginHandler{
		issuer: issuer,
		logger: defLogger{},
	}
}

func (h *LoginHandler) WithLogger(logger Logger) *LoginHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute validates the message and returns the token envelope, or a failure
// envelope carrying the taxonomy code.
func (h *LoginHandler) Execute(ctx context.Context, msg LoginMessage) Response {
	if err := msg.Validate(); err != nil {
		return Fail(goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
			WithCode(goerrors.CodeBadRequest))
	}

	select {
	case <-ctx.Done():
		return Fail(goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during login"))
	default:
	}

	token, err := h.issuer.IssueToken(ctx, msg.Username, msg.Password)
	if err != nil {
		h.logger.Debug("login failed", "username", msg.Username)
		return Fail(err)
	}

	return Success(token)
}
