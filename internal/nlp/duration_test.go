package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationPhrase(t *testing.T) {
	day := 24 * time.Hour

	cases := []struct {
		phrase string
		want   time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"7d", 7 * day},
		{"2w", 14 * day},
		{"24 hours", 24 * time.Hour},
		{"1 day", day},
		{"one day", day},
		{"ONE DAY", day},
		{"a week", 7 * day},
		{"an hour", time.Hour},
		{"30 min", 30 * time.Minute},
		{"500 ms", 500 * time.Millisecond},
		{"ten days", 10 * day},
		{"  3 days  ", 3 * day},
	}

	for _, tc := range cases {
		t.Run(tc.phrase, func(t *testing.T) {
			got, err := ParseDurationPhrase(tc.phrase)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDurationPhrase_Deterministic(t *testing.T) {
	// The same phrase always normalizes to the same duration.
	first, err := ParseDurationPhrase("one day")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ParseDurationPhrase("one day")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseDurationPhrase_AmbiguousFails(t *testing.T) {
	ambiguous := []string{
		"", "a while", "some time", "forever", "long enough",
		"several days", "-1 day", "0 days", "day", "one",
		"1 fortnight",
	}
	for _, phrase := range ambiguous {
		_, err := ParseDurationPhrase(phrase)
		assert.Error(t, err, "phrase %q should fail rather than guess", phrase)
	}
}

func TestParseDurationPhrase_OverflowFails(t *testing.T) {
	// Scaling must not wrap into a duration the retention bounds accept.
	huge := []string{
		"99999999999 weeks",
		"99999999999999 days",
		"99999999999999999 hours",
		"9999999999999999w",
	}
	for _, phrase := range huge {
		got, err := ParseDurationPhrase(phrase)
		assert.Error(t, err, "phrase %q should overflow, got %s", phrase, got)
	}
}
