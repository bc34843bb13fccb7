package validator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perishable-catalog/pkg/validator"
)

type color string

func (c color) Validate() error {
	if c == "red" || c == "green" {
		return nil
	}
	return errors.New("unknown color")
}

type sample struct {
	Label string  `json:"label" validate:"required,notblank"`
	Max   float64 `json:"max" validate:"finite,gt=0"`
	Value float64 `json:"value" validate:"finite,gte=0,ltefield=Max"`
	Day   string  `json:"day" validate:"required,datetime=2006-01-02"`
	Color color   `json:"color" validate:"enum"`
}

func validSample() sample {
	return sample{Label: "x", Max: 10, Value: 5, Day: "2026-10-16", Color: "red"}
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept a valid struct", func(t *testing.T) {
		assert.NoError(t, v.Validate(validSample()))
	})

	testCases := []struct {
		name   string
		mutate func(s *sample)
		want   string
	}{
		{"blank label", func(s *sample) { s.Label = "   " }, "label must not be blank"},
		{"empty label", func(s *sample) { s.Label = "" }, "label is required"},
		{"non positive max", func(s *sample) { s.Max, s.Value = 0, 0 }, "max must be greater than 0"},
		{"infinite max", func(s *sample) { s.Max = math.Inf(1) }, "max must be a finite number"},
		{"nan value", func(s *sample) { s.Value = math.NaN() }, "value must be a finite number"},
		{"negative value", func(s *sample) { s.Value = -1 }, "value must be greater than or equal to 0"},
		{"value above max", func(s *sample) { s.Value = 11 }, "value must be less than or equal to max"},
		{"bad day", func(s *sample) { s.Day = "16/10/2026" }, "day must be a valid date in the format YYYY-MM-DD"},
		{"bad enum", func(s *sample) { s.Color = "blue" }, "color invalid enum value: blue"},
	}

	for _, tc := range testCases {
		t.Run("Should reject "+tc.name, func(t *testing.T) {
			s := validSample()
			tc.mutate(&s)

			err := v.Validate(s)
			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))
			assert.Equal(t, []string{tc.want}, validator.Messages(err))
		})
	}

	t.Run("Should return nil messages for other errors", func(t *testing.T) {
		assert.Nil(t, validator.Messages(errors.New("boom")))
		assert.False(t, validator.IsValidationError(errors.New("boom")))
	})
}
