package user

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/tharun-r1705/data-frontend-new/core"
)

var (
	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the email address"
)

func init() {
	core.Validate.RegisterStructValidation(accountStructValidation, NewAccount{})
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdAttrSimTag, pwdAttrSimText)
}

// accountStructValidation applies the signup password policy before the
// credentials ever leave the device:
// - no whitespace
// - not all numeric
// - not similar to the email address
func accountStructValidation(sl validator.StructLevel) {
	acct, ok := sl.Current().Interface().(NewAccount)
	if !ok {
		return
	}
	reportErr := func(tag string) {
		sl.ReportError(acct.Password, "password", "Password", tag, "")
	}

	var digitCount int
	for _, char := range acct.Password {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if len(acct.Password) > 0 && digitCount == len(acct.Password) {
		reportErr(pwdNotAllNumTag)
		return
	}

	if similarity(acct.Password, acct.Email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}

func similarity(pwd, attr string) float64 {
	if attr == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio()
}
