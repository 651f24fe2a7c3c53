package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"concrete-reservation/utils"
)

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+963991234567", true},
		{"0991234567", true},
		{"123456789", true},
		{"+1123456789012345", false}, // too long
		{"12345678", false},          // too short
		{"not-a-phone", false},
		{"", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, utils.IsValidPhone(tc.phone), "phone %q", tc.phone)
	}
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Phone string `validate:"required,phone"`
	}

	require.NoError(t, utils.ValidateStruct(payload{Phone: "+963991234567"}))

	err := utils.ValidateStruct(payload{Phone: "bogus"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Phone")
}

func TestParseDate(t *testing.T) {
	day, err := utils.ParseDate("2026-08-30")
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Equal(t, 2026, day.Year())
	require.Equal(t, time.August, day.Month())
	require.Equal(t, 30, day.Day())
	require.Zero(t, day.Hour())

	empty, err := utils.ParseDate("")
	require.NoError(t, err)
	require.Nil(t, empty)

	_, err = utils.ParseDate("not a date")
	require.Error(t, err)
}
