// Package validation holds the synchronous, per-field rules of the onboarding
// draft and the password strength heuristic.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"orgdesk/internal/onboarding/models"
)

const (
	minNameLength     = 2
	maxNameLength     = 50
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 6
	maxPasswordLength = 72
	dateLayout        = "2006-01-02"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{9,15}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	panPattern      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern  = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	postalPattern   = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Validator applies field rules. In edit mode a blank password is valid and
// means "keep the current credential".
type Validator struct {
	mode models.Mode
	now  func() time.Time
}

type Option func(*Validator)

// WithClock sets the reference time for date-of-birth checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

func New(mode models.Mode, opts ...Option) *Validator {
	v := &Validator{mode: mode, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks value for field and returns nil when it is valid.
func (v *Validator) Validate(field models.Field, value string) *models.ValidationError {
	switch field {
	case models.FieldFirstName, models.FieldLastName:
		return name(field, value)
	case models.FieldEmail:
		return email(field, value)
	case models.FieldPhone:
		return phone(field, value, true)
	case models.FieldAlternatePhone, models.FieldEmergencyContactPhone:
		return phone(field, value, false)
	case models.FieldUsername:
		return username(field, value)
	case models.FieldPassword:
		return v.password(field, value)
	case models.FieldPANNumber:
		return optionalPattern(field, strings.ToUpper(strings.TrimSpace(value)), panPattern,
			"PAN must be 5 letters, 4 digits and a letter")
	case models.FieldAadhaarNumber:
		return optionalPattern(field, models.ChannelAadhaar.Normalize(value), aadhaarPattern,
			"Aadhaar must be 12 digits and cannot start with 0 or 1")
	case models.FieldPostalCode:
		return optionalPattern(field, strings.TrimSpace(value), postalPattern,
			"Postal code must be a 6-digit PIN")
	case models.FieldDateOfBirth:
		return v.date(field, value, true)
	case models.FieldJoiningDate:
		return v.date(field, value, false)
	case models.FieldRole, models.FieldDesignation:
		if strings.TrimSpace(value) == "" {
			return required(field)
		}
		return tooLong(field, value, 100)
	case models.FieldEmergencyContactName:
		return tooLong(field, value, 100)
	}
	return nil
}

// ValidateAll checks every field of d.
func (v *Validator) ValidateAll(d *models.DraftRecord) models.ValidationErrors {
	errs := models.ValidationErrors{}
	for _, f := range models.AllFields {
		errs.Apply(f, v.Validate(f, d.Value(f)))
	}
	return errs
}

func required(f models.Field) *models.ValidationError {
	return &models.ValidationError{Field: f, Kind: models.KindRequired, Message: f.Label() + " is required"}
}

func tooShort(f models.Field, min int) *models.ValidationError {
	return &models.ValidationError{
		Field:   f,
		Kind:    models.KindTooShort,
		Limit:   min,
		Message: fmt.Sprintf("%s must be at least %d characters", f.Label(), min),
	}
}

func tooLong(f models.Field, value string, max int) *models.ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(value)) <= max {
		return nil
	}
	return &models.ValidationError{
		Field:   f,
		Kind:    models.KindTooLong,
		Limit:   max,
		Message: fmt.Sprintf("%s must be at most %d characters", f.Label(), max),
	}
}

func invalid(f models.Field, msg string) *models.ValidationError {
	return &models.ValidationError{Field: f, Kind: models.KindInvalidFormat, Message: msg}
}

func name(f models.Field, value string) *models.ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return required(f)
	}
	if utf8.RuneCountInString(trimmed) < minNameLength {
		return tooShort(f, minNameLength)
	}
	return tooLong(f, trimmed, maxNameLength)
}

func email(f models.Field, value string) *models.ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return required(f)
	}
	if !emailPattern.MatchString(trimmed) {
		return invalid(f, "Enter a valid email address")
	}
	return nil
}

func phone(f models.Field, value string, mandatory bool) *models.ValidationError {
	stripped := models.ChannelPhone.Normalize(value)
	if stripped == "" {
		if mandatory {
			return required(f)
		}
		return nil
	}
	if !phonePattern.MatchString(stripped) {
		return invalid(f, "Enter a valid phone number")
	}
	return nil
}

func username(f models.Field, value string) *models.ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return required(f)
	}
	if utf8.RuneCountInString(trimmed) < minUsernameLength {
		return tooShort(f, minUsernameLength)
	}
	if err := tooLong(f, trimmed, maxUsernameLength); err != nil {
		return err
	}
	if !usernamePattern.MatchString(trimmed) {
		return invalid(f, "Username may only contain letters, numbers, dot, underscore and hyphen")
	}
	return nil
}

func (v *Validator) password(f models.Field, value string) *models.ValidationError {
	if value == "" {
		if v.mode == models.ModeEdit {
			return nil
		}
		return required(f)
	}
	if utf8.RuneCountInString(value) < minPasswordLength {
		return tooShort(f, minPasswordLength)
	}
	// bcrypt ignores bytes past 72.
	if len(value) > maxPasswordLength {
		return &models.ValidationError{
			Field:   f,
			Kind:    models.KindTooLong,
			Limit:   maxPasswordLength,
			Message: fmt.Sprintf("Password must be at most %d bytes", maxPasswordLength),
		}
	}
	return nil
}

func optionalPattern(f models.Field, normalized string, pattern *regexp.Regexp, msg string) *models.ValidationError {
	if normalized == "" {
		return nil
	}
	if !pattern.MatchString(normalized) {
		return invalid(f, msg)
	}
	return nil
}

func (v *Validator) date(f models.Field, value string, notFuture bool) *models.ValidationError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return invalid(f, f.Label()+" must be a date in YYYY-MM-DD format")
	}
	if notFuture && t.After(v.now()) {
		return invalid(f, f.Label()+" cannot be in the future")
	}
	return nil
}

// isSymbol reports a non-alphanumeric character for strength scoring.
func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
