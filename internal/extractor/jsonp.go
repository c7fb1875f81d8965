package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/network"
)

var (
	jsonpPadding = regexp.MustCompile(`^[\w.]+\(|\);?$`)

	errNotJSONP = errors.New("response is not a JSONP object")
)

// loadJSONP fetches a JSONP endpoint, strips the callback padding and
// decodes the payload into v.
func loadJSONP(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := network.FetchPage(ctx, url, headers)
	if err != nil {
		return err
	}

	payload, err := removeJSONPPadding(body)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(payload), v)
}

// removeJSONPPadding strips the "callback(...);" wrapper and verifies that a
// JSON object remains.
func removeJSONPPadding(jsonp string) (string, error) {
	payload := jsonpPadding.ReplaceAllString(strings.TrimSpace(jsonp), "")
	if !strings.HasPrefix(payload, "{") || !strings.HasSuffix(payload, "}") {
		return "", errNotJSONP
	}
	return payload, nil
}

var packageDataMarker = regexp.MustCompile(`window\.kalturaIframePackageData\s*=\s*`)

// decodePackageData extracts the kalturaIframePackageData object embedded in
// the mwEmbed player HTML. The object is followed by more script text, so
// decoding stops at the end of the first JSON value.
func decodePackageData(mwembed string, v any) error {
	loc := packageDataMarker.FindStringIndex(mwembed)
	if loc == nil {
		return errors.New("kalturaIframePackageData not found")
	}

	dec := json.NewDecoder(strings.NewReader(mwembed[loc[1]:]))
	if err := dec.Decode(v); err != nil {
		log.Errorf("Failed to parse kalturaIframePackageData!")
		return err
	}
	return nil
}
