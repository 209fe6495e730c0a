package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/kundihq/kundi/core"
)

type (
	LoginRequest struct {
		AppID  string `json:"app_id" validate:"required"`
		Secret string `json:"secret" validate:"required"`
	}

	LoginResponse struct {
		Token   string `json:"token"`
		Sandbox bool   `json:"sandbox"`
	}

	// FixRequest carries the corrections to stage on a student. All fields
	// are optional; an empty body means "apply the suggested hygiene fixes".
	FixRequest struct {
		Name  *string `json:"name" validate:"omitempty,min=1"`
		Grade *int    `json:"grade" validate:"omitempty,min=-1,max=12"`
		Email *string `json:"email" validate:"omitempty,email"`
		Phone *string `json:"phone_number" validate:"omitempty,e164_us"`
	}

	ConfigRequest struct {
		CutoffMonth int `json:"cutoff_month" validate:"required,min=1,max=12"`
		CutoffDay   int `json:"cutoff_day" validate:"required,min=1,max=31"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.AppID = core.CleanString(lr.AppID)
	lr.Secret = core.CleanString(lr.Secret)
	return validate.Struct(lr)
}

func (fr *FixRequest) Validate(validate *validator.Validate) error {
	if fr.Name != nil {
		*fr.Name = core.CleanString(*fr.Name)
	}
	if fr.Email != nil {
		*fr.Email = core.CleanString(*fr.Email, true)
	}
	if fr.Phone != nil {
		*fr.Phone = core.CleanString(*fr.Phone)
	}
	return validate.Struct(fr)
}

// Empty reports whether no explicit correction was provided.
func (fr *FixRequest) Empty() bool {
	return fr.Name == nil && fr.Grade == nil && fr.Email == nil && fr.Phone == nil
}

func (cr *ConfigRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}
