package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func infoWithTitle(title map[string]string) *programInfo {
	var info programInfo
	info.Data.Program.Title = title
	return &info
}

func TestProgramTitleSeasonAndEpisode(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Pasila"})
	info.Data.Program.PartOfSeason = &partOfSeason{SeasonNumber: 1}
	info.Data.Program.EpisodeNumber = 2
	info.Data.Program.PublicationEvent = []publicationEvent{
		areenaEvent("currently", "2018-07-01T00:00:00+03:00", "29-1"),
	}

	assert.Equal(t, "Pasila: S01E02-2018-07-01T00:00", programTitle(info))
}

func TestProgramTitleEpisodeOnly(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Pasila"})
	info.Data.Program.EpisodeNumber = 12

	assert.Equal(t, "Pasila: E12", programTitle(info))
}

func TestProgramTitleItemTitle(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Uutiset"})
	info.Data.Program.ItemTitle = map[string]string{"fi": "Iltauutiset"}

	assert.Equal(t, "Uutiset: Iltauutiset", programTitle(info))
}

func TestProgramTitlePromotionTitleFallback(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Uutiset"})
	info.Data.Program.PromotionTitle = map[string]string{"fi": "Erikoislähetys"}

	assert.Equal(t, "Uutiset: Erikoislähetys", programTitle(info))
}

func TestProgramTitleGenrePrefixRemoved(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Kino: Komisario Palmun erehdys"})

	assert.Equal(t, "Komisario Palmun erehdys", programTitle(info))
}

func TestProgramTitleRedundantSeriesPrefix(t *testing.T) {
	info := infoWithTitle(map[string]string{"fi": "Pasila: Pasilan joulu"})

	assert.Equal(t, "Pasilan joulu", programTitle(info))
}

func TestProgramTitleFallback(t *testing.T) {
	assert.Equal(t, "areena", programTitle(infoWithTitle(nil)))
}

func TestProgramTitleSwedishFallback(t *testing.T) {
	info := infoWithTitle(map[string]string{"sv": "Strömsö"})

	assert.Equal(t, "Strömsö", programTitle(info))
}
