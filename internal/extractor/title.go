package extractor

import (
	"fmt"
	"regexp"
	"strings"
)

// genrePrefixes are branding prefixes that Areena prepends to movie and
// documentary titles.
var genrePrefixes = []string{
	"Elokuva:", "Kino:", "Kino Klassikko:", "Kino Suomi:", "Kotikatsomo:",
	"Uusi Kino:", "Dok:", "Dokumenttiprojekti:", "Historia:",
}

var shortTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)

// programTitle composes the output title for an on-demand program: the
// series title, the season/episode tag, the episode title and the publish
// date.
func programTitle(info *programInfo) string {
	program := info.Data.Program

	title := fiOrSvText(program.Title)
	if title == "" {
		title = "areena"
	}
	title = removeRedundantSeriesPrefix(title)

	season := program.SeasonNumber
	if program.PartOfSeason != nil {
		season = program.PartOfSeason.SeasonNumber
	}
	switch {
	case season > 0 && program.EpisodeNumber > 0:
		title += fmt.Sprintf(": S%02dE%02d", season, program.EpisodeNumber)
	case program.EpisodeNumber > 0:
		title += fmt.Sprintf(": E%02d", program.EpisodeNumber)
	}

	itemTitle := fiOrSvText(program.ItemTitle)
	promotionTitle := fiOrSvText(program.PromotionTitle)
	if itemTitle != "" && !strings.Contains(title, itemTitle) {
		title += ": " + itemTitle
	} else if promotionTitle != "" && !strings.Contains(title, promotionTitle) {
		title += ": " + promotionTitle
	}

	title = removeGenrePrefix(title)

	if date := publishDate(info); date != "" {
		title += "-" + strings.NewReplacer("/", "-", " ", "-").Replace(date)
	}
	return title
}

// removeRedundantSeriesPrefix drops a "Series: Series episode" duplication.
func removeRedundantSeriesPrefix(title string) string {
	if prefix, rest, found := strings.Cut(title, ":"); found && strings.Contains(rest, prefix) {
		return strings.TrimSpace(rest)
	}
	return title
}

func removeGenrePrefix(title string) string {
	for _, prefix := range genrePrefixes {
		if strings.HasPrefix(title, prefix) {
			return strings.TrimSpace(title[len(prefix):])
		}
	}
	return title
}

// publishDate is the publish time shortened to minute precision, for the
// title suffix.
func publishDate(info *programInfo) string {
	startTime := info.publishEvent().StartTime
	if short := shortTimestamp.FindString(startTime); short != "" {
		return short
	}
	return startTime
}
