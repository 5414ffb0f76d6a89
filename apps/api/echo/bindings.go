package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/user"
)

type (
	AuthRequest struct {
		Token string `json:"token" validate:"required"`
	}

	AuthResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	SubscribeRequest struct {
		SubjectID string `json:"subject_id" validate:"required"`
	}

	ChatRequest struct {
		Question string `json:"question" validate:"required"`
		Subject  string `json:"subject" validate:"required"`
	}

	ChatResponse struct {
		Answer string `json:"answer"`
	}
)

func (r *AuthRequest) Validate(validate *validator.Validate) error {
	r.Token = core.CleanString(r.Token)
	return validate.Struct(r)
}

func (r *SubscribeRequest) Validate(validate *validator.Validate) error {
	r.SubjectID = core.CleanString(r.SubjectID)
	return validate.Struct(r)
}

func (r *ChatRequest) Validate(validate *validator.Validate) error {
	r.Question = core.CleanString(r.Question)
	r.Subject = core.CleanString(r.Subject)
	return validate.Struct(r)
}
