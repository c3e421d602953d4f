// internal/domain/models/submission.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionType identifies which visitor form produced a submission.
type SubmissionType string

const (
	SubmissionContact             SubmissionType = "contact"
	SubmissionProductInquiry      SubmissionType = "product_inquiry"
	SubmissionTrainingInquiry     SubmissionType = "training_inquiry"
	SubmissionCallbackRequest     SubmissionType = "callback_request"
	SubmissionTourRequest         SubmissionType = "tour_request"
	SubmissionQuoteRequest        SubmissionType = "quote_request"
	SubmissionResellerApplication SubmissionType = "reseller_application"
)

// AllSubmissionTypes returns every form type.
func AllSubmissionTypes() []SubmissionType {
	return []SubmissionType{
		SubmissionContact,
		SubmissionProductInquiry,
		SubmissionTrainingInquiry,
		SubmissionCallbackRequest,
		SubmissionTourRequest,
		SubmissionQuoteRequest,
		SubmissionResellerApplication,
	}
}

// Label returns the human-readable form name ("Contact", "Quote request").
func (t SubmissionType) Label() string {
	s := strings.ReplaceAll(string(t), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsValidSubmissionType reports whether s names a form type.
func IsValidSubmissionType(s string) bool {
	for _, t := range AllSubmissionTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// SubmissionStatus is the admin triage state of a submission.
type SubmissionStatus string

const (
	SubmissionNew      SubmissionStatus = "new"
	SubmissionRead     SubmissionStatus = "read"
	SubmissionArchived SubmissionStatus = "archived"
)

// AllSubmissionStatuses returns every triage state.
func AllSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{SubmissionNew, SubmissionRead, SubmissionArchived}
}

// IsValidSubmissionStatus reports whether s names a triage state.
func IsValidSubmissionStatus(s string) bool {
	for _, st := range AllSubmissionStatuses() {
		if string(st) == s {
			return true
		}
	}
	return false
}

// SubmissionMetadata describes where a submission came from.
type SubmissionMetadata struct {
	IPAddress   string    `bson:"ip_address" json:"ip_address"`
	UserAgent   string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	SourceURL   string    `bson:"source_url,omitempty" json:"source_url,omitempty"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// FormSubmission is a visitor's contact or inquiry form, stored for admin triage.
//
// Details holds the type-specific fields (product_name, training_name,
// preferred_date, ...), keyed by their JSON names.
type FormSubmission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference string             `bson:"reference" json:"reference"`
	Type      SubmissionType     `bson:"type" json:"type"`
	Status    SubmissionStatus   `bson:"status" json:"status"`

	Name             string `bson:"name" json:"name"`
	Email            string `bson:"email" json:"email"`
	Phone            string `bson:"phone" json:"phone"`
	PhoneCountryCode string `bson:"phone_country_code,omitempty" json:"phone_country_code,omitempty"`
	Company          string `bson:"company,omitempty" json:"company,omitempty"`
	OrgNumber        string `bson:"org_number,omitempty" json:"org_number,omitempty"`
	Message          string `bson:"message,omitempty" json:"message,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`

	GDPRConsent          bool      `bson:"gdpr_consent" json:"gdpr_consent"`
	GDPRConsentTimestamp time.Time `bson:"gdpr_consent_timestamp" json:"gdpr_consent_timestamp"`

	Metadata SubmissionMetadata `bson:"metadata" json:"metadata"`

	StatusUpdatedBy *primitive.ObjectID `bson:"status_updated_by,omitempty" json:"status_updated_by,omitempty"`
	StatusUpdatedAt *time.Time          `bson:"status_updated_at,omitempty" json:"status_updated_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SubmissionFilter narrows the admin submission listing.
type SubmissionFilter struct {
	Type   SubmissionType   // empty means any type
	Status SubmissionStatus // empty means any status
	Limit  int64
	Page   int64 // 1-based
}
