package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gobwas/glob"

	apperrors "lockin/internal/platform/errors"
)

const (
	BlockedMessage = "Shield active: log it after the burn."
	ExitMessage    = "Emergency exit engaged. Reactor safely powered down."
)

var BlockedHosts = []string{
	"discord.com",
	"discord.gg",
	"slack.com",
	"x.com",
	"twitter.com",
	"instagram.com",
	"facebook.com",
	"messenger.com",
	"telegram.org",
	"t.me",
	"reddit.com",
	"youtube.com",
	"tiktok.com",
}

type rule struct {
	host    string
	pattern glob.Glob
}

// rules match a blocked host itself and any of its subdomains.
var rules = compileRules(BlockedHosts)

func compileRules(hosts []string) []rule {
	out := make([]rule, 0, len(hosts))
	for _, host := range hosts {
		out = append(out, rule{host: host, pattern: glob.MustCompile("{" + host + ",*." + host + "}")})
	}
	return out
}

type Verdict struct {
	Host    string
	Blocked bool
	// Rule is the blocked host that matched.
	Rule string
}

// Check classifies a link. Bare hosts such as "reddit.com/r/go" are accepted.
// A host is blocked when it equals a blocked host or is a subdomain of one.
func Check(raw string) (Verdict, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Verdict{}, fmt.Errorf("%w: url is required", apperrors.ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return Verdict{}, fmt.Errorf("%w: invalid url %q", apperrors.ErrInvalidInput, raw)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	for _, r := range rules {
		if r.pattern.Match(host) {
			return Verdict{Host: host, Blocked: true, Rule: r.host}, nil
		}
	}
	return Verdict{Host: host}, nil
}

const (
	HoldDuration = 3 * time.Second
	// HoldGap is the longest pause between key repeats that still counts as holding.
	HoldGap = 750 * time.Millisecond
)

// Hold tracks a held key from its repeat events. Terminals report no key
// release, so a gap longer than HoldGap ends the hold.
type Hold struct {
	start time.Time
	last  time.Time
}

// Press records one key event and reports whether the hold is complete.
// A completed hold resets.
func (h *Hold) Press(now time.Time) bool {
	if h.start.IsZero() || now.Sub(h.last) > HoldGap || now.Before(h.last) {
		h.start = now
	}
	h.last = now
	if now.Sub(h.start) >= HoldDuration {
		h.Reset()
		return true
	}
	return false
}

// Progress is the completed fraction of the hold at now, in [0, 1].
func (h *Hold) Progress(now time.Time) float64 {
	if h.start.IsZero() || now.Sub(h.last) > HoldGap {
		return 0
	}
	p := float64(now.Sub(h.start)) / float64(HoldDuration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

func (h *Hold) Reset() {
	h.start = time.Time{}
	h.last = time.Time{}
}
