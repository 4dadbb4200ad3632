package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldLabels maps request struct field names to the labels shown in
// validation error messages.
var fieldLabels = map[string]string{
	"Email":          "Email",
	"Password":       "Password",
	"Role":           "Role",
	"Title":          "Job title",
	"Description":    "Description",
	"Location":       "Location",
	"SalaryMin":      "Minimum salary",
	"SalaryMax":      "Maximum salary",
	"CreditFee":      "Credit fee",
	"Name":           "Company name",
	"Website":        "Website",
	"JobID":          "Job",
	"CandidateName":  "Candidate name",
	"CandidateEmail": "Candidate email",
	"Filename":       "File name",
	"Credits":        "Credit amount",
	"FullName":       "Full name",
	"Phone":          "Phone number",
	"CompanyName":    "Company name",
	"WebsiteURL":     "Website",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// Message turns a binding error into a user-presentable message. Errors
// that are not validator errors come back as-is.
func Message(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	l := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", l)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", l)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", l, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", l, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", l, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", l)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", l, fe.Param())
	case "valid_name":
		return fmt.Sprintf("%s contains invalid characters", l)
	case "valid_phone":
		return fmt.Sprintf("%s must be a valid phone number", l)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", l)
	}
	return fmt.Sprintf("%s is invalid", l)
}
