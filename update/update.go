package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Release describes the latest published release.
type Release struct {
	Version string
	Notes   string
}

// SecurityFix reports whether the release notes flag security content.
func (r Release) SecurityFix() bool {
	return strings.Contains(strings.ToLower(r.Notes), "security")
}

type releaseInfo struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
}

const releaseURL = "https://api.github.com/repos/capereport/capereport/releases/latest"

// Check queries the release feed and reports whether a newer version
// than current is published.
func Check(current string) (Release, bool, error) {
	return checkURL(current, releaseURL)
}

func checkURL(current, url string) (Release, bool, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return Release{}, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Release{}, false, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	var info releaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Release{}, false, err
	}
	latest := strings.TrimPrefix(info.TagName, "v")
	rel := Release{Version: latest, Notes: info.Body}
	if latest != current {
		return rel, true, nil
	}
	return rel, false, nil
}
