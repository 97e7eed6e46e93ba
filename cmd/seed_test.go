package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnershipintake/internal/domain"
)

func TestParseSeed_Embedded(t *testing.T) {
	seed, err := parseSeed(defaultSeed)
	require.NoError(t, err)

	require.Len(t, seed.Hubs, 3)
	names := make([]domain.HubName, 0, len(seed.Hubs))
	for _, h := range seed.Hubs {
		names = append(names, h.Name)
		assert.True(t, h.IsActive)
	}
	assert.ElementsMatch(t, domain.HubNames, names)
	assert.NotNil(t, seed.Holidays)
}

func TestParseSeed_FillsDefaults(t *testing.T) {
	seed, err := parseSeed([]byte("hubs:\n  - name: VIRTUAL\n    is_active: true\nholidays: [\"2026-12-25\"]\n"))
	require.NoError(t, err)

	hub := seed.Hubs[0]
	assert.Equal(t, domain.DefaultTimezone, hub.Timezone)
	assert.Equal(t, domain.DefaultOpenTime, hub.OpenTime)
	assert.Equal(t, domain.DefaultCloseTime, hub.CloseTime)
	assert.Equal(t, []string{"2026-12-25"}, seed.Holidays)
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad yaml", "hubs: [", "parse seed"},
		{"no hubs", "holidays: []\n", "no hubs"},
		{"unknown hub", "hubs:\n  - name: MOON\n", "unknown name"},
		{"bad timezone", "hubs:\n  - name: VIRTUAL\n    timezone: Mars/Olympus\n", "VIRTUAL"},
		{"bad open time", "hubs:\n  - name: VIRTUAL\n    open_time: \"9am\"\n", "open_time"},
		{"inverted window", "hubs:\n  - name: VIRTUAL\n    open_time: \"18:00\"\n    close_time: \"09:00\"\n", "after open_time"},
		{"bad holiday", "hubs:\n  - name: VIRTUAL\nholidays: [\"25/12/2026\"]\n", "YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
