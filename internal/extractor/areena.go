package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/network"
)

// AreenaExtractor handles on-demand Areena programs. The variant extractors
// (live channels, archives, news) reuse its pipeline and replace individual
// steps through the hook fields.
type AreenaExtractor struct {
	filters filters.StreamFilters

	programID func(pageURL string) string
	infoURL   func(programID string) string
	mediaID   func(info *programInfo) string
	title     func(ctx context.Context, info *programInfo) string
	region    func(info *programInfo) string
	flavors   func(ctx context.Context, info *programInfo, mediaID, programID, pageURL string) []media.StreamFlavor
	playlist  func(ctx context.Context, pageURL string) []string
}

// NewAreena builds the on-demand program extractor.
func NewAreena(f filters.StreamFilters) *AreenaExtractor {
	e := &AreenaExtractor{filters: f}
	e.programID = programIDFromURL
	e.infoURL = programInfoURL
	e.mediaID = func(info *programInfo) string { return info.mediaID() }
	e.title = func(_ context.Context, info *programInfo) string { return programTitle(info) }
	e.region = func(info *programInfo) string { return info.publishEvent().Region }
	e.flavors = e.flavorsByMediaID
	e.playlist = e.seriesPlaylist
	return e
}

func (e *AreenaExtractor) Playlist(ctx context.Context, pageURL string) []string {
	return e.playlist(ctx, pageURL)
}

func (e *AreenaExtractor) ExtractClip(ctx context.Context, clipURL string) media.Clip {
	pid := e.programID(clipURL)
	if pid == "" {
		return media.NewFailedClip(clipURL, "Failed to parse a program ID")
	}

	info, err := e.loadProgramInfo(ctx, pid)
	if err != nil {
		log.Debugf("program info request failed: %v", err)
		return media.NewFailedClip(clipURL, "Failed to download program data")
	}

	return e.buildClip(ctx, pid, info, clipURL)
}

func (e *AreenaExtractor) loadProgramInfo(ctx context.Context, programID string) (*programInfo, error) {
	var info programInfo
	if err := loadJSONP(ctx, e.infoURL(programID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (e *AreenaExtractor) buildClip(ctx context.Context, programID string, info *programInfo, pageURL string) media.Clip {
	mediaID := e.mediaID(info)
	flavors := e.flavors(ctx, info, mediaID, programID, pageURL)

	if len(flavors) == 0 {
		return media.NewFailedClip(pageURL, "Media not found")
	}
	if msg, failed := onlyInvalidStreams(flavors); failed {
		return media.NewFailedClip(pageURL, msg)
	}

	event := info.publishEvent()
	return media.Clip{
		Webpage:             pageURL,
		Title:               e.title(ctx, info),
		Flavors:             flavors,
		DurationSeconds:     info.durationSeconds(),
		Region:              e.region(info),
		PublishTimestamp:    parseTimestamp(event.StartTime),
		ExpirationTimestamp: parseTimestamp(event.EndTime),
		Subtitles:           parseSubtitles(e.descriptorMedias(ctx, programID, mediaID, info)),
	}
}

// onlyInvalidStreams reports an extraction failure when streams exist but
// none of them is usable.
func onlyInvalidStreams(flavors []media.StreamFlavor) (string, bool) {
	message := ""
	total := 0
	for _, fl := range flavors {
		for _, s := range fl.Streams {
			total++
			if s.IsValid() {
				return "", false
			}
			if message == "" {
				message = s.ErrorMessage()
			}
		}
	}
	return message, total > 0
}

// flavorsByMediaID routes to the Kaltura player for HTML5 media and to the
// legacy Akamai descriptor otherwise.
func (e *AreenaExtractor) flavorsByMediaID(ctx context.Context, info *programInfo, mediaID, programID, pageURL string) []media.StreamFlavor {
	if mediaID == "" {
		return nil
	}

	if strings.HasPrefix(mediaID, "29-") {
		log.Debug("Detected an HTML5 video")
		pkg, err := loadKalturaPackage(ctx, mediaID, programID, pageURL)
		if err != nil {
			log.Debugf("failed to load the player package: %v", err)
			return []media.StreamFlavor{media.NewFailedFlavor("Failed to load the player configuration")}
		}
		if pkg.Error != "" {
			return []media.StreamFlavor{media.NewFailedFlavor(pkg.Error)}
		}
		return parseKalturaFlavors(pkg)
	}

	if medias := e.descriptorMedias(ctx, programID, mediaID, info); len(medias) > 0 {
		return parseAkamaiFlavors(ctx, medias)
	}
	return []media.StreamFlavor{media.NewFailedFlavor("Unknown stream flavor")}
}

// descriptorMedias fetches the legacy media descriptor, which still carries
// the subtitle tracks even for HTML5 media.
func (e *AreenaExtractor) descriptorMedias(ctx context.Context, programID, mediaID string, info *programInfo) []akamaiMedia {
	if mediaID == "" {
		return nil
	}

	proto := "HDS"
	if strings.HasPrefix(mediaID, "29-") {
		proto = "HLS"
	}
	if info.isAudio() {
		proto = "RTMPE"
	}

	var descriptor mediaDescriptor
	if err := loadJSONP(ctx, mediaDescriptorURL(programID, mediaID, proto), nil, &descriptor); err != nil {
		log.Debugf("media descriptor request failed: %v", err)
		return nil
	}

	descProto := descriptor.Meta.Protocol
	if descProto == "" {
		descProto = "HDS"
	}
	return descriptor.Data.Media[descProto]
}

// programIDFromURL reads the program ID from an Areena page URL: the play
// query parameter on channel pages, the last path segment otherwise.
func programIDFromURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(parsed.Path, "/tv/ohjelmat/") {
		if play := parsed.Query().Get("play"); play != "" {
			return play
		}
	}
	segments := strings.Split(parsed.Path, "/")
	return segments[len(segments)-1]
}

func programInfoURL(programID string) string {
	return fmt.Sprintf(
		"https://player.yle.fi/api/v1/programs.jsonp?id=%s&callback=yleEmbed.programJsonpCallback",
		url.QueryEscape(programID))
}

func mediaDescriptorURL(programID, mediaID, protocol string) string {
	return fmt.Sprintf(
		"https://player.yle.fi/api/v1/media.jsonp?id=%s&callback=yleEmbed.startPlayerCallback"+
			"&mediaId=%s&protocol=%s&client=areena-flash-player&instance=1",
		url.QueryEscape(mediaID), url.QueryEscape(programID), url.QueryEscape(protocol))
}

// seriesPlaylist expands a series page into its episode page URLs through
// the programs API. A page that lists no episodes is a plain clip page.
func (e *AreenaExtractor) seriesPlaylist(ctx context.Context, pageURL string) []string {
	parsed, err := url.Parse(pageURL)
	if err != nil || strings.HasPrefix(parsed.Path, "/tv/ohjelmat/") {
		return []string{pageURL}
	}

	episodes := e.playlistEpisodeURLs(ctx, e.programID(pageURL))
	if len(episodes) == 0 {
		log.Debug("not a playlist")
		return []string{pageURL}
	}
	log.Debugf("playlist page with %d clips", len(episodes))
	return episodes
}

// playlistEpisodeURLs pages through the series episode listing. The API
// fails on page sizes above 100.
func (e *AreenaExtractor) playlistEpisodeURLs(ctx context.Context, seriesID string) []string {
	const pageSize = 100

	var playlist []string
	for offset := 0; ; offset += pageSize {
		page, err := e.playlistPage(ctx, seriesID, pageSize, offset)
		if err != nil {
			log.Debugf("playlist page request failed: %v", err)
			return nil
		}

		playlist = append(playlist, page...)
		if len(page) < pageSize {
			return playlist
		}
	}
}

func (e *AreenaExtractor) playlistPage(ctx context.Context, seriesID string, pageSize, offset int) ([]string, error) {
	log.Debugf("Getting a playlist page %s, size = %d, offset = %d", seriesID, pageSize, offset)

	body, err := network.FetchPage(ctx, playlistURL(seriesID, pageSize, offset), nil)
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		return nil, err
	}

	episodes := make([]string, 0, len(listing.Data))
	for _, item := range listing.Data {
		if item.ID != "" {
			episodes = append(episodes, "https://areena.yle.fi/"+item.ID)
		}
	}
	return episodes, nil
}

func playlistURL(seriesID string, pageSize, offset int) string {
	offsetParam := ""
	if offset > 0 {
		offsetParam = fmt.Sprintf("&offset=%d", offset)
	}
	return fmt.Sprintf(
		"https://areena.yle.fi/api/programs/v1/items.json?series=%s&type=program"+
			"&availability=ondemand&order=episode.hash%%3Adesc%%2C"+
			"publication.starttime%%3Adesc%%2Ctitle.fi%%3Aasc"+
			"&app_id=89868a18&app_key=54bb4ea4d92854a2a45e98f961f0d7da&limit=%d%s",
		url.QueryEscape(seriesID), pageSize, offsetParam)
}
