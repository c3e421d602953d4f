package forms

import (
	"sort"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// Input is the visitor's form payload. Fields a form type does not use are
// ignored.
type Input struct {
	Name             string `json:"name" validate:"required,max=100" label:"Name"`
	Email            string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone            string `json:"phone" validate:"required,min=6,max=30" label:"Phone"`
	PhoneCountryCode string `json:"phone_country_code" validate:"max=6" label:"Country code"`
	Company          string `json:"company" validate:"max=200" label:"Company"`
	OrgNumber        string `json:"org_number" validate:"max=50" label:"Organization number"`
	Message          string `json:"message" validate:"max=5000" label:"Message"`

	ProductName   string `json:"product_name" validate:"max=200" label:"Product"`
	TrainingName  string `json:"training_name" validate:"max=200" label:"Training"`
	PreferredDate string `json:"preferred_date" validate:"max=50" label:"Preferred date"`
	PreferredTime string `json:"preferred_time" validate:"max=50" label:"Preferred time"`

	GDPRConsent bool `json:"gdpr_consent"`
}

// requiredByType lists the fields each form type requires beyond the common
// name, email and phone.
var requiredByType = map[models.SubmissionType][]string{
	models.SubmissionContact:             {"message"},
	models.SubmissionProductInquiry:      {"product_name"},
	models.SubmissionTrainingInquiry:     {"training_name"},
	models.SubmissionCallbackRequest:     {},
	models.SubmissionTourRequest:         {"preferred_date"},
	models.SubmissionQuoteRequest:        {"company", "message"},
	models.SubmissionResellerApplication: {"company", "org_number"},
}

// requiredFields returns the type-specific required fields of t.
func requiredFields(t models.SubmissionType) []string {
	return append([]string(nil), requiredByType[t]...)
}

var fieldLabels = map[string]string{
	"name":               "Name",
	"email":              "Email",
	"phone":              "Phone",
	"phone_country_code": "Country code",
	"company":            "Company",
	"org_number":         "Organization number",
	"message":            "Message",
	"product_name":       "Product",
	"training_name":      "Training",
	"preferred_date":     "Preferred date",
	"preferred_time":     "Preferred time",
}

// value returns the input field with the given JSON name.
func (in *Input) value(field string) string {
	switch field {
	case "message":
		return in.Message
	case "product_name":
		return in.ProductName
	case "training_name":
		return in.TrainingName
	case "preferred_date":
		return in.PreferredDate
	case "company":
		return in.Company
	case "org_number":
		return in.OrgNumber
	}
	return ""
}

// singleLine maps the JSON name of every one-line field to its value.
func (in *Input) singleLine() map[string]*string {
	return map[string]*string{
		"name":               &in.Name,
		"email":              &in.Email,
		"phone":              &in.Phone,
		"phone_country_code": &in.PhoneCountryCode,
		"company":            &in.Company,
		"org_number":         &in.OrgNumber,
		"product_name":       &in.ProductName,
		"training_name":      &in.TrainingName,
		"preferred_date":     &in.PreferredDate,
		"preferred_time":     &in.PreferredTime,
	}
}

// sanitize strips markup from free text and trims every field, so that
// validation sees exactly what will be stored. The email is only trimmed;
// its format check rejects markup.
func (in *Input) sanitize() {
	for field, p := range in.singleLine() {
		if field == "email" {
			*p = strings.TrimSpace(*p)
			continue
		}
		*p = clean(*p)
	}
	in.Message = cleanMessage(in.Message)
}

// multiLineFields returns the one-line fields that contain a line break.
func (in *Input) multiLineFields() []string {
	var out []string
	for field, p := range in.singleLine() {
		if strings.ContainsAny(*p, "\r\n") {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

// clean strips markup from free text. Single-line fields are also trimmed;
// the message keeps its line breaks.
func clean(s string) string {
	return strings.TrimSpace(htmlsanitize.StripTags(s))
}

func cleanMessage(s string) string {
	return normalize.Multiline(htmlsanitize.StripTags(s))
}
