package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// programInfo is the decoded program metadata. The same struct covers the
// programs API, the services (simulcast) API, the preview API and the flat
// archive embed payloads; each endpoint fills only its own subset.
type programInfo struct {
	Data struct {
		Program programDetails  `json:"program"`
		EA      arkivetDetails  `json:"ea"`
		Service serviceDetails  `json:"service"`
		Outlets []outletWrapper `json:"outlets"`
		Channel channelDetails  `json:"ongoing_channel"`
	} `json:"data"`

	// Elävä Arkisto embeds are flat objects.
	DownloadURL   string `json:"downloadUrl"`
	MediakantaID  string `json:"mediakantaId"`
	Otsikko       string `json:"otsikko"`
	FlatTitle     string `json:"title"`
	OriginalTitle string `json:"originalTitle"`
}

type programDetails struct {
	Title            map[string]string  `json:"title"`
	ItemTitle        map[string]string  `json:"itemTitle"`
	PromotionTitle   map[string]string  `json:"promotionTitle"`
	Duration         string             `json:"duration"`
	MediaFormat      string             `json:"mediaFormat"`
	SeasonNumber     int                `json:"seasonNumber"`
	EpisodeNumber    int                `json:"episodeNumber"`
	PartOfSeason     *partOfSeason      `json:"partOfSeason"`
	PublicationEvent []publicationEvent `json:"publicationEvent"`
}

type partOfSeason struct {
	SeasonNumber int `json:"seasonNumber"`
}

type publicationEvent struct {
	Service struct {
		ID string `json:"id"`
	} `json:"service"`
	Media          *eventMedia `json:"media"`
	TemporalStatus string      `json:"temporalStatus"`
	StartTime      string      `json:"startTime"`
	EndTime        string      `json:"endTime"`
	Region         string      `json:"region"`
}

type eventMedia struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type arkivetDetails struct {
	MediakantaID  string `json:"mediakantaId"`
	Otsikko       string `json:"otsikko"`
	Title         string `json:"title"`
	OriginalTitle string `json:"originalTitle"`
}

type serviceDetails struct {
	Title  map[string]string `json:"title"`
	Region string            `json:"region"`
}

type outletWrapper struct {
	Outlet struct {
		Language []string `json:"language"`
		Media    struct {
			ID string `json:"id"`
		} `json:"media"`
	} `json:"outlet"`
}

type channelDetails struct {
	MediaID string            `json:"media_id"`
	Title   map[string]string `json:"title"`
}

// publishEvent picks the publication event describing the clip's media:
// Areena events only, currently running ones when any exist, newest first.
func (p *programInfo) publishEvent() publicationEvent {
	events := lo.Filter(p.Data.Program.PublicationEvent, func(e publicationEvent, _ int) bool {
		return e.Service.ID == "yle-areena"
	})

	current := lo.Filter(events, func(e publicationEvent, _ int) bool {
		return e.TemporalStatus == "currently"
	})
	if len(current) > 0 {
		events = current
	}

	withMedia := lo.Filter(events, func(e publicationEvent, _ int) bool {
		return e.Media != nil
	})
	if len(withMedia) == 0 {
		return publicationEvent{}
	}

	sort.SliceStable(withMedia, func(i, j int) bool {
		return withMedia[i].StartTime > withMedia[j].StartTime
	})
	return withMedia[0]
}

func (p *programInfo) mediaID() string {
	event := p.publishEvent()
	if event.Media == nil {
		return ""
	}
	return event.Media.ID
}

func (p *programInfo) isAudio() bool {
	event := p.publishEvent()
	return (event.Media != nil && event.Media.Type == "AudioObject") ||
		p.Data.Program.MediaFormat == "audio"
}

func (p *programInfo) durationSeconds() mo.Option[int] {
	return parsePTDuration(p.Data.Program.Duration)
}

var ptDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parsePTDuration converts an ISO 8601 time duration like PT1H26M47S to
// seconds.
func parsePTDuration(d string) mo.Option[int] {
	m := ptDuration.FindStringSubmatch(d)
	if m == nil {
		return mo.None[int]()
	}

	total := 0
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return mo.None[int]()
		}
		total += mult * n
	}
	return mo.Some(total)
}

// parseTimestamp reads an Areena API timestamp, for example
// "2018-06-30T18:55:00+03:00".
func parseTimestamp(s string) mo.Option[time.Time] {
	if s == "" {
		return mo.None[time.Time]()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return mo.None[time.Time]()
	}
	return mo.Some(t)
}

// localizedText picks the requested language from a localized string map,
// falling back to Finnish.
func localizedText(alternatives map[string]string, language string) string {
	if alternatives == nil {
		return ""
	}
	if text := alternatives[language]; text != "" {
		return text
	}
	return alternatives["fi"]
}

func fiOrSvText(alternatives map[string]string) string {
	if text := localizedText(alternatives, "fi"); text != "" {
		return text
	}
	return localizedText(alternatives, "sv")
}

func finOrSweText(alternatives map[string]string) string {
	if text := alternatives["fin"]; text != "" {
		return text
	}
	return alternatives["swe"]
}
