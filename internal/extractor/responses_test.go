package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePTDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"PT1H26M47S", 5207, true},
		{"PT26M", 1560, true},
		{"PT15S", 15, true},
		{"PT2H", 7200, true},
		{"PT0S", 0, true},
		{"", 0, false},
		{"1h26m", 0, false},
		{"PT1H26M47S extra", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parsePTDuration(tt.input).Get()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, ok := parseTimestamp("2018-07-01T00:00:00+03:00").Get()
	require.True(t, ok)
	assert.Equal(t, 2018, got.Year())
	assert.Equal(t, time.July, got.Month())

	assert.True(t, parseTimestamp("").IsAbsent())
	assert.True(t, parseTimestamp("yesterday").IsAbsent())
}

func areenaEvent(temporalStatus, startTime, mediaID string) publicationEvent {
	e := publicationEvent{
		TemporalStatus: temporalStatus,
		StartTime:      startTime,
	}
	e.Service.ID = "yle-areena"
	if mediaID != "" {
		e.Media = &eventMedia{ID: mediaID}
	}
	return e
}

func TestPublishEventSelection(t *testing.T) {
	t.Run("current events win over expired ones", func(t *testing.T) {
		var info programInfo
		info.Data.Program.PublicationEvent = []publicationEvent{
			areenaEvent("expired", "2020-01-01T00:00:00+02:00", "29-old"),
			areenaEvent("currently", "2018-01-01T00:00:00+02:00", "29-current"),
		}
		assert.Equal(t, "29-current", info.mediaID())
	})

	t.Run("newest event wins", func(t *testing.T) {
		var info programInfo
		info.Data.Program.PublicationEvent = []publicationEvent{
			areenaEvent("currently", "2018-01-01T00:00:00+02:00", "29-older"),
			areenaEvent("currently", "2019-01-01T00:00:00+02:00", "29-newer"),
		}
		assert.Equal(t, "29-newer", info.mediaID())
	})

	t.Run("events without media are skipped", func(t *testing.T) {
		var info programInfo
		info.Data.Program.PublicationEvent = []publicationEvent{
			areenaEvent("currently", "2019-01-01T00:00:00+02:00", ""),
			areenaEvent("currently", "2018-01-01T00:00:00+02:00", "29-media"),
		}
		assert.Equal(t, "29-media", info.mediaID())
	})

	t.Run("non areena services are ignored", func(t *testing.T) {
		other := areenaEvent("currently", "2019-01-01T00:00:00+02:00", "29-other")
		other.Service.ID = "yle-tv1"

		var info programInfo
		info.Data.Program.PublicationEvent = []publicationEvent{other}
		assert.Equal(t, "", info.mediaID())
	})
}

func TestLocalizedText(t *testing.T) {
	assert.Equal(t, "Ohjelma", fiOrSvText(map[string]string{"fi": "Ohjelma", "sv": "Program"}))
	assert.Equal(t, "Program", fiOrSvText(map[string]string{"sv": "Program"}))
	assert.Equal(t, "", fiOrSvText(nil))

	assert.Equal(t, "Ohjelma", finOrSweText(map[string]string{"fin": "Ohjelma", "swe": "Program"}))
	assert.Equal(t, "Program", finOrSweText(map[string]string{"swe": "Program"}))
}
