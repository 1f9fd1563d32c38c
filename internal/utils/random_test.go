package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateRandomOTP()
		require.Len(t, otp, 6)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestGenerateRandomStaff(t *testing.T) {
	for i := 0; i < 50; i++ {
		member := GenerateRandomStaff("example.com")

		assert.NotEmpty(t, member.Name)
		assert.True(t, strings.HasSuffix(member.Email, "@example.com"))
		assert.Len(t, member.Phone, 11)
		assert.True(t, strings.HasPrefix(member.Phone, "1"))

		seen := make(map[int32]bool)
		for _, day := range member.UnavailableWeekdays {
			assert.GreaterOrEqual(t, day, int32(0))
			assert.LessOrEqual(t, day, int32(6))
			assert.False(t, seen[day])
			seen[day] = true
		}

		if member.MaxHours != nil {
			assert.Greater(t, *member.MaxHours, 0.0)
		}
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	pw := GenerateRandomPassword(16)
	assert.Len(t, pw, 16)
}
