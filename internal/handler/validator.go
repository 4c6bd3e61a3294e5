package handler

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"kiu_social_server/pkg/constants"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	trans ut.Translator

	// kiuEmailRegexp restricts registration to the university domain.
	kiuEmailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@kiu\.edu\.ge$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// InitTrans registers the custom validators and an English translator on
// gin's binding validator. Must run once before the router is built.
func InitTrans() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin binding validator engine is not *validator.Validate")
	}

	if err := v.RegisterValidation("kiuemail", validateKiuEmail); err != nil {
		return err
	}
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		return err
	}
	if err := v.RegisterValidation("startyear", validateStartYear); err != nil {
		return err
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	var found bool
	trans, found = uni.GetTranslator("en")
	if !found {
		return fmt.Errorf("en translator not found")
	}
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return err
	}

	registerCustomTranslation(v, "kiuemail", "{0} must be a kiu.edu.ge email address")
	registerCustomTranslation(v, "username", "{0} may contain only letters, digits and underscores")
	registerCustomTranslation(v, "startyear", "{0} is outside the admissible enrollment range")
	return nil
}

// GetTranslator returns the shared translator for error rendering.
func GetTranslator() ut.Translator {
	return trans
}

func registerCustomTranslation(v *validator.Validate, tag, message string) {
	_ = v.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

func validateKiuEmail(fl validator.FieldLevel) bool {
	return kiuEmailRegexp.MatchString(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegexp.MatchString(fl.Field().String())
}

func validateStartYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= constants.MIN_START_YEAR && year <= int64(time.Now().Year()+5)
}

// RemoveTopStruct strips the struct name prefix from translated field keys,
// "RegisterRequest.email" becomes "email".
func RemoveTopStruct(fields map[string]string) map[string]string {
	result := make(map[string]string, len(fields))
	for key, value := range fields {
		if idx := strings.Index(key, "."); idx >= 0 {
			result[key[idx+1:]] = value
		} else {
			result[key] = value
		}
	}
	return result
}
