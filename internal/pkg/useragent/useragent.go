// Package useragent classifies client User-Agent strings into the coarse
// device and platform buckets used by the rollup breakdowns. Pattern
// databases are embedded YAML compiled lazily through a PCRE cache.
package useragent

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"
)

// Device type buckets.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Platform buckets.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Info is the classification result for a User-Agent string.
type Info struct {
	UserAgent string
	Device    string
	Platform  string
	Bot       bool
	BotName   string
}

//go:embed database/devices.yml
//go:embed database/platforms.yml
//go:embed database/bots.yml
var databaseFiles embed.FS

type patternEntry struct {
	Regex string `yaml:"regex"`
	Name  string `yaml:"name"`
}

// RegexCache compiles patterns once and reuses them across lookups.
type RegexCache struct {
	compiled map[string]*pcre.Regexp
	mutex    sync.RWMutex
}

func newRegexCache() *RegexCache {
	return &RegexCache{
		compiled: make(map[string]*pcre.Regexp),
	}
}

func (rc *RegexCache) get(pattern string) (*pcre.Regexp, error) {
	rc.mutex.RLock()
	if regex, exists := rc.compiled[pattern]; exists {
		rc.mutex.RUnlock()
		return regex, nil
	}
	rc.mutex.RUnlock()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	// Double-check pattern
	if regex, exists := rc.compiled[pattern]; exists {
		return regex, nil
	}

	regex, err := pcre.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}
	rc.compiled[pattern] = regex
	return regex, nil
}

var (
	cache       = newRegexCache()
	loadOnce    sync.Once
	devicesDB   []patternEntry
	platformsDB []patternEntry
	botsDB      []patternEntry
)

func loadDatabases() {
	loadOnce.Do(func() {
		devicesDB = mustLoad("database/devices.yml")
		platformsDB = mustLoad("database/platforms.yml")
		botsDB = mustLoad("database/bots.yml")
	})
}

func mustLoad(path string) []patternEntry {
	data, err := databaseFiles.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("useragent: missing embedded database %s: %v", path, err))
	}
	var entries []patternEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		panic(fmt.Sprintf("useragent: invalid database %s: %v", path, err))
	}
	return entries
}

func matchFirst(entries []patternEntry, ua string) (patternEntry, bool) {
	for _, entry := range entries {
		regex, err := cache.get(entry.Regex)
		if err != nil {
			continue
		}
		if regex.MatchString(ua) {
			return entry, true
		}
	}
	return patternEntry{}, false
}

// Parse classifies a User-Agent string. Empty or unmatched strings fall
// back to desktop/web, matching how the storefront web client reports.
func Parse(ua string) Info {
	loadDatabases()

	info := Info{
		UserAgent: ua,
		Device:    DeviceDesktop,
		Platform:  PlatformWeb,
	}
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return info
	}

	if bot, ok := matchFirst(botsDB, ua); ok {
		info.Bot = true
		info.BotName = bot.Name
	}
	if device, ok := matchFirst(devicesDB, ua); ok {
		info.Device = device.Name
	}
	if platform, ok := matchFirst(platformsDB, ua); ok {
		info.Platform = platform.Name
	}
	return info
}
