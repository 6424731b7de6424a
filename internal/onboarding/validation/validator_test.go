package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgdesk/internal/onboarding/models"
)

func TestValidate_CoreRules(t *testing.T) {
	v := New(models.ModeCreate)

	tests := []struct {
		name  string
		field models.Field
		value string
		kind  models.ErrorKind
	}{
		{"first name empty after trim", models.FieldFirstName, "   ", models.KindRequired},
		{"first name one char", models.FieldFirstName, "A", models.KindTooShort},
		{"last name too long", models.FieldLastName, strings.Repeat("x", 51), models.KindTooLong},
		{"email empty", models.FieldEmail, "", models.KindRequired},
		{"email without tld", models.FieldEmail, "asha@example", models.KindInvalidFormat},
		{"email with space", models.FieldEmail, "as ha@example.com", models.KindInvalidFormat},
		{"phone empty", models.FieldPhone, " ", models.KindRequired},
		{"phone leading zero", models.FieldPhone, "0987654321", models.KindInvalidFormat},
		{"phone too short", models.FieldPhone, "987654321", models.KindInvalidFormat},
		{"phone too long", models.FieldPhone, "+12345678901234567", models.KindInvalidFormat},
		{"username empty", models.FieldUsername, "", models.KindRequired},
		{"username two chars", models.FieldUsername, "ab", models.KindTooShort},
		{"username bad charset", models.FieldUsername, "asha rao", models.KindInvalidFormat},
		{"password empty in create", models.FieldPassword, "", models.KindRequired},
		{"password five chars", models.FieldPassword, "abcde", models.KindTooShort},
		{"role empty", models.FieldRole, "", models.KindRequired},
		{"designation empty", models.FieldDesignation, " ", models.KindRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.field, tt.value)
			require.NotNil(t, err)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.field, err.Field)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	v := New(models.ModeCreate)

	valid := map[models.Field]string{
		models.FieldFirstName:      "Al",
		models.FieldEmail:          "asha@example.com",
		models.FieldPhone:          "+91 98765 43210",
		models.FieldAlternatePhone: "",
		models.FieldUsername:       "asha.rao_1",
		models.FieldPassword:       "abcdef",
		models.FieldPANNumber:      "abcde1234f",
		models.FieldAadhaarNumber:  "2345 6789 0123",
		models.FieldPostalCode:     "560001",
		models.FieldDateOfBirth:    "1990-05-15",
		models.FieldCity:           "",
	}
	for f, value := range valid {
		assert.Nil(t, v.Validate(f, value), "field %s value %q", f, value)
	}
}

func TestValidate_OptionalFormats(t *testing.T) {
	v := New(models.ModeCreate, WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	}))

	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldPANNumber, "ABCD1234F").Kind)
	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldAadhaarNumber, "123456789012").Kind)
	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldPostalCode, "05600").Kind)
	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldDateOfBirth, "15/05/1990").Kind)
	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldDateOfBirth, "2027-01-01").Kind)
	assert.Nil(t, v.Validate(models.FieldJoiningDate, "2027-01-01"), "joining date may be in the future")
	assert.Equal(t, models.KindInvalidFormat, v.Validate(models.FieldEmergencyContactPhone, "12").Kind)
}

func TestValidate_EditModeBlankPassword(t *testing.T) {
	assert.Nil(t, New(models.ModeEdit).Validate(models.FieldPassword, ""))
	assert.NotNil(t, New(models.ModeEdit).Validate(models.FieldPassword, "abc"))
}

func TestValidateAll(t *testing.T) {
	d := models.NewDraft()
	d.FirstName = "Asha"
	errs := New(models.ModeCreate).ValidateAll(&d)

	assert.False(t, errs.Has(models.FieldFirstName))
	assert.True(t, errs.Has(models.FieldLastName))
	assert.True(t, errs.Has(models.FieldEmail))
	assert.False(t, errs.Has(models.FieldCity))
}

func TestScore(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
	}{
		{"", 0, ""},
		{"abc", 1, "Very Weak"},
		{"abcdefgh", 2, "Weak"},
		{"Abcdefgh", 3, "Fair"},
		{"Abc12345", 4, "Good"},
		{"Ab1!2345", 5, "Strong"},
		{"Passw0rd!", 5, "Strong"},
		{"中文", 1, "Very Weak"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.score, Score(tt.password))
			assert.Equal(t, tt.label, StrengthLabel(Score(tt.password)))
		})
	}
}

func TestScore_MonotonicPerProperty(t *testing.T) {
	steps := []string{"abc", "abcdefgh", "Abcdefgh", "Abcdefg1", "Abcdef1!"}
	prev := 0
	for _, pw := range steps {
		s := Score(pw)
		assert.Equal(t, prev+1, s, "password %q", pw)
		prev = s
	}
}
