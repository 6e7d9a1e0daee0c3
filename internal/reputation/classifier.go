package reputation

import (
	"net/url"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Tier is an assumed authenticity band for a news host
type Tier int

const (
	TierNone Tier = 0
	Tier50   Tier = 50
	Tier60   Tier = 60
	Tier70   Tier = 70
	Tier80   Tier = 80
)

// Range returns the inclusive score cap window for the tier
func (t Tier) Range() (lo, hi int) {
	switch t {
	case Tier80:
		return 11, 20
	case Tier70:
		return 21, 30
	case Tier60:
		return 31, 40
	case Tier50:
		return 41, 50
	}
	return 0, 0
}

// SnopesHost is the fact-checker that gets default trust
const SnopesHost = "snopes.com"

var factCheckers = []string{"snopes.com", "politifact.com", "factcheck.org", "afp.com", "reuters.com"}

var trustedNews = []string{
	// India
	"indiatimes.com", "hindustantimes.com", "news18.com", "ndtv.com", "indianexpress.com",
	"aajtak.in", "abplive.com", "livehindustan.com", "thehindu.com", "amarujala.com",
	// Global
	"yahoo.com", "cnn.com", "news.google.com", "nytimes.com", "theguardian.com",
	"dailymail.co.uk", "foxnews.com", "usatoday.com", "msn.com",
}

var tierLists = []struct {
	tier  Tier
	hosts []string
}{
	{Tier80, []string{
		"reuters.com", "apnews.com", "bbc.com", "aljazeera.com", "wsj.com", "ft.com", "economist.com",
		"npr.org", "pbs.org", "bloomberg.com", "voanews.com", "forbes.com", "latimes.com",
		"chicagotribune.com", "csmonitor.com", "theatlantic.com", "politico.com",
		"nationalgeographic.com", "dw.com", "scmp.com", "huffpost.com",
	}},
	{Tier70, []string{
		"timesofindia.indiatimes.com", "deccanherald.com", "firstpost.com", "theweek.in",
		"outlookindia.com", "deccanchronicle.com", "telegraphindia.com", "business-standard.com",
		"moneycontrol.com", "livemint.com", "cnbctv18.com", "etvbharat.com", "mid-day.com",
		"freepressjournal.in", "tribuneindia.com", "thenewsminute.com", "swarajyamag.com",
		"opindia.com", "oneindia.com", "news9live.com",
	}},
	{Tier60, []string{
		"zeenews.india.com", "timesnownews.com", "republicworld.com", "dnaindia.com",
		"newsnationtv.com", "lokmat.com", "tv9hindi.com", "prabhasakshi.com", "samaylive.com",
		"navbharattimes.indiatimes.com", "jagran.com", "patrika.com", "ibc24.in", "khabar.ndtv.com",
		"jantaserishta.com", "khaskhabar.com", "divyabhaskar.co.in", "gujarati.abplive.com",
		"kannada.oneindia.com",
	}},
	{Tier50, []string{
		"dailypioneer.com", "organiser.org", "sundayguardianlive.com", "samacharjagat.com",
		"amarujala.tv", "punjabkesari.in", "sentinelassam.com", "nenow.in", "nagalandpost.com",
		"manipurtimes.com", "freepresskashmir.news", "greaterkashmir.com", "dailyexcelsior.com",
		"risingkashmir.com", "kashmirmonitor.net", "kashmirreader.com", "newsbharati.com",
		"jammulinksnews.com", "dailythanthi.com",
	}},
}

// Classifier answers reputation questions about hosts
type Classifier struct {
	factCheckers map[string]bool
	trusted      []string
	overrides    map[string]Tier
}

// NewClassifier builds a classifier from the built-in tables extended by cfg
func NewClassifier(cfg *model.ReputationConfig) *Classifier {
	c := &Classifier{
		factCheckers: make(map[string]bool, len(factCheckers)),
		trusted:      append([]string(nil), trustedNews...),
		overrides:    make(map[string]Tier),
	}
	for _, h := range factCheckers {
		c.factCheckers[h] = true
	}
	if cfg == nil {
		return c
	}

	for _, h := range cfg.ExtraTrusted {
		if h = normalizeHost(h); h != "" {
			c.trusted = append(c.trusted, h)
		}
	}
	for h, pct := range cfg.DomainTiers {
		if t := parseTier(pct); t != TierNone {
			c.overrides[normalizeHost(h)] = t
		}
	}
	return c
}

// HostOf returns the lowercase hostname of rawURL without a leading "www.", or ""
func HostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// IsFactChecker reports whether host is a known fact-checking site
func (c *Classifier) IsFactChecker(host string) bool {
	return c.factCheckers[host]
}

// IsSnopes reports whether host is the Snopes site itself
func (c *Classifier) IsSnopes(host string) bool {
	return host == SnopesHost
}

// IsTrusted reports whether host is a trusted mainstream news domain or subdomain
func (c *Classifier) IsTrusted(host string) bool {
	if host == "" {
		return false
	}
	for _, d := range c.trusted {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Tier returns the highest tier whose list matches host.
// Configured overrides are checked first and match exactly.
func (c *Classifier) Tier(host string) Tier {
	if host == "" {
		return TierNone
	}
	if t, ok := c.overrides[host]; ok {
		return t
	}
	for _, tl := range tierLists {
		if hostMatches(tl.hosts, host) {
			return tl.tier
		}
	}
	return TierNone
}

// hostMatches matches exact hosts, subdomains, and hosts embedding the domain
// on a dot boundary such as bbc.com.au
func hostMatches(list []string, host string) bool {
	for _, d := range list {
		if host == d ||
			strings.HasSuffix(host, "."+d) ||
			strings.Contains(host, "."+d) ||
			strings.Contains(host, d+".") {
			return true
		}
	}
	return false
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimPrefix(h, "www.")
}

func parseTier(pct int) Tier {
	switch Tier(pct) {
	case Tier80, Tier70, Tier60, Tier50:
		return Tier(pct)
	}
	return TierNone
}
