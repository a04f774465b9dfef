package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// ErrMissingSlot is returned for an app-info segment whose URL carries no
// slot query parameter.
var ErrMissingSlot = errors.New("app info url has no slot parameter")

var slotPattern = regexp.MustCompile(`[?&]slot=([^&#]*)`)

// ParseAppInfo parses a running-apps string of the form
// "Name|url,Name|url,...". A segment without a URL yields an empty entry.
// A segment whose URL has no slot parameter also yields an empty entry and
// contributes an ErrMissingSlot to the returned error; the remaining
// segments are still parsed.
func ParseAppInfo(raw string) ([]domain.AppInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return []domain.AppInfo{}, nil
	}

	segments := strings.Split(raw, ",")
	apps := make([]domain.AppInfo, 0, len(segments))
	var errs []error

	for _, segment := range segments {
		parts := strings.SplitN(segment, "|", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			apps = append(apps, domain.AppInfo{})
			continue
		}

		name := strings.TrimSpace(parts[0])
		url := strings.TrimSpace(parts[1])

		m := slotPattern.FindStringSubmatch(url)
		if m == nil {
			apps = append(apps, domain.AppInfo{})
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingSlot, segment))
			continue
		}

		apps = append(apps, domain.AppInfo{Name: name, URL: url, Slot: m[1]})
	}

	return apps, errors.Join(errs...)
}

// ActiveApp returns the name of the integration driving the panel: the
// entry in slot "0", else the first named entry.
func ActiveApp(apps []domain.AppInfo) string {
	for _, app := range apps {
		if app.Slot == "0" && app.Name != "" {
			return app.Name
		}
	}
	for _, app := range apps {
		if app.Name != "" {
			return app.Name
		}
	}
	return ""
}
