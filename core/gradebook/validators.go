package gradebook

import (
	"github.com/go-playground/validator/v10"

	"github.com/PranayN1999/my-gradebook-app/core"
)

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}
