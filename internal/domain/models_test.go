package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSalary(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     *int64
	}{
		{name: "BothBoundsSummed", from: "1000", to: "2000", want: ptr(3000)},
		{name: "ZeroIsNumeric", from: "0", to: "500", want: ptr(500)},
		{name: "MissingLower", from: "", to: "2000"},
		{name: "MissingUpper", from: "1000", to: ""},
		{name: "NonNumeric", from: "1000", to: "2k"},
		{name: "Negative", from: "-1", to: "10"},
		{name: "Fractional", from: "10.5", to: "10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveSalary(tc.from, tc.to)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestVacancyRecordValidate(t *testing.T) {
	t.Run("DefaultsDescription", func(t *testing.T) {
		v := VacancyRecord{Title: "Engineer", Company: "Acme", EmployerID: 1}
		require.NoError(t, v.Validate())
		assert.Equal(t, DefaultDescription, v.Description)
	})

	t.Run("KeepsDescription", func(t *testing.T) {
		v := VacancyRecord{Title: "Engineer", Company: "Acme", EmployerID: 1, Description: "Go"}
		require.NoError(t, v.Validate())
		assert.Equal(t, "Go", v.Description)
	})

	t.Run("RejectsMissingRequiredFields", func(t *testing.T) {
		v := VacancyRecord{Company: "Acme"}
		err := v.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"title", "employer_id"}, verr.Fields)
	})
}

func TestErrorClassification(t *testing.T) {
	cause := errors.New("duplicate key")
	err := &IntegrityError{Table: "employer", Err: cause}

	assert.True(t, errors.Is(err, ErrIntegrity))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(ErrUnknownEmployer, ErrValidation))
}

func ptr(v int64) *int64 { return &v }
