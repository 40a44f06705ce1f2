package services

import (
	"fmt"
	errs "investor-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InvestorRequest mirrors the form rules: name required up to 100
// characters, description up to 500. Lengths count runes.
type InvestorRequest struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

func ValidateInvestor(req InvestorRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInvestor, err)
	}
	return nil
}
