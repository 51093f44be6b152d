package student

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/grading"
)

var (
	gradeTag  = "grade"
	gradeText = "must be one of " + strings.Join(gradeLetters(), ", ")
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)
}

// gradeValidation checks that the field holds a letter of the grade scale.
func gradeValidation(fl validator.FieldLevel) bool {
	return grading.IsGrade(fl.Field().String())
}

func gradeLetters() []string {
	scale := grading.Scale()
	letters := make([]string, 0, len(scale))
	for _, g := range scale {
		letters = append(letters, g.Letter)
	}
	return letters
}
