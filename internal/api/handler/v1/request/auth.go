package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// ECMAScript mode keeps \d to ASCII digits.
var cnpExp = regexp2.MustCompile(`^\d{13}$`, regexp2.ECMAScript)

var errInvalidCNP = errors.New("must be exactly 13 digits")

func validCNP(value interface{}) error {
	cnp, _ := value.(string)
	ok, err := cnpExp.MatchString(cnp)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidCNP
	}

	return nil
}

// ValidCNP reports whether cnp is a syntactically valid CNP.
func ValidCNP(cnp string) bool {
	return validCNP(cnp) == nil
}

type RegisterRequest struct {
	CNP string `json:"cnp"`
}

func (req *RegisterRequest) Validate() error {
	req.CNP = strings.TrimSpace(req.CNP)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.CNP, validation.Required, validation.By(validCNP)),
	)
}

type LoginRequest struct {
	CNP string `json:"cnp"`
}

func (req *LoginRequest) Validate() error {
	req.CNP = strings.TrimSpace(req.CNP)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.CNP, validation.Required, validation.By(validCNP)),
	)
}
