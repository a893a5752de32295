package trustpilot

import (
	"time"

	"reviewpulse/internal/platform/config"
)

// DefaultStartURL is the first listing page scraped
const DefaultStartURL = "https://fr.trustpilot.com/review/www.leroymerlin.fr"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config shapes one scrape pass
type Config struct {
	StartURL    string
	UserAgent   string
	Timeout     time.Duration
	DelayMin    time.Duration
	DelayMax    time.Duration
	MaxPages    int
	CutoffDays  int
	UnknownName string
}

// ConfigFromEnv reads CORE_SCRAPER_*
func ConfigFromEnv(root config.Conf) Config {
	c := root.Prefix("CORE_SCRAPER_")
	return Config{
		StartURL:    c.MayString("START_URL", DefaultStartURL),
		UserAgent:   c.MayString("USER_AGENT", defaultUserAgent),
		Timeout:     c.MayDuration("TIMEOUT", 10*time.Second),
		DelayMin:    c.MayDuration("DELAY_MIN", 2*time.Second),
		DelayMax:    c.MayDuration("DELAY_MAX", 5*time.Second),
		MaxPages:    c.MayPositiveInt("MAX_PAGES", 50),
		CutoffDays:  c.MayPositiveInt("CUTOFF_DAYS", 7),
		UnknownName: c.MayString("UNKNOWN_AUTHOR", "Auteur inconnu"),
	}
}

func (c Config) normalized() Config {
	if c.StartURL == "" {
		c.StartURL = DefaultStartURL
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.DelayMin < 0 {
		c.DelayMin = 0
	}
	if c.DelayMax < c.DelayMin {
		c.DelayMax = c.DelayMin
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 50
	}
	if c.CutoffDays <= 0 {
		c.CutoffDays = 7
	}
	if c.UnknownName == "" {
		c.UnknownName = "Auteur inconnu"
	}
	return c
}
