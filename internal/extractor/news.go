package extractor

import (
	"context"
	"encoding/json"
	"html"
	"regexp"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/network"
)

// initialStateAttr locates the serialized application state on a news page.
var initialStateAttr = regexp.MustCompile(`id="initialState"\s+data-state="([^"]*)"`)

// NewNews extracts the Areena clips embedded in a Yle news, sports or
// weather article.
func NewNews(f filters.StreamFilters) *AreenaExtractor {
	e := NewAreena(f)
	e.playlist = newsPlaylist
	return e
}

func newsPlaylist(ctx context.Context, pageURL string) []string {
	body, err := network.FetchPage(ctx, pageURL, nil)
	if err != nil {
		log.Debugf("news page request failed: %v", err)
		return nil
	}

	m := initialStateAttr.FindStringSubmatch(body)
	if m == nil {
		return nil
	}

	var state struct {
		Article struct {
			MainMedia []struct {
				ID string `json:"id"`
			} `json:"mainMedia"`
		} `json:"article"`
	}
	if err := json.Unmarshal([]byte(html.UnescapeString(m[1])), &state); err != nil {
		log.Debugf("failed to parse the news page state: %v", err)
		return nil
	}

	var playlist []string
	for _, m := range state.Article.MainMedia {
		if m.ID == "" {
			continue
		}
		areenaID := m.ID
		if !strings.Contains(areenaID, "-") {
			areenaID = "1-" + areenaID
		}
		playlist = append(playlist, "https://areena.yle.fi/"+areenaID)
	}

	log.Debugf("Found %d Areena clips on the news page", len(playlist))
	return playlist
}
