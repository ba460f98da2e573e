package cronparser

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cron "github.com/netresearch/go-cron"
)

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Parser computes cron occurrences using go-cron. Parsed schedules are cached per
// full spec, so repeated lookups of the same expression do not re-parse it.
type Parser struct {
	mu        sync.RWMutex
	schedules map[string]cron.Schedule
}

// New creates a new cron parser.
func New() *Parser {
	return &Parser{
		schedules: make(map[string]cron.Schedule),
	}
}

// NextAfter returns the next cron occurrence strictly after `after`.
// If tz is non-empty and the spec has no CRON_TZ=/TZ= prefix, it prepends CRON_TZ=<tz>.
// Defaults to UTC when no tz is given.
func (p *Parser) NextAfter(
	spec,
	tz string,
	after time.Time,
) (time.Time, error) {
	schedule, err := p.schedule(buildSpec(spec, tz))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	return schedule.Next(after), nil
}

func (p *Parser) schedule(fullSpec string) (cron.Schedule, error) {
	p.mu.RLock()
	schedule, ok := p.schedules[fullSpec]
	p.mu.RUnlock()

	if ok {
		return schedule, nil
	}

	schedule, err := _parser.Parse(fullSpec)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.schedules[fullSpec] = schedule
	p.mu.Unlock()

	return schedule, nil
}

func buildSpec(spec, tz string) string {
	spec = strings.TrimSpace(spec)

	hasTZPrefix := strings.HasPrefix(spec, "CRON_TZ=") ||
		strings.HasPrefix(spec, "TZ=")

	switch {
	case hasTZPrefix:
		return spec
	case tz != "":
		return "CRON_TZ=" + tz + " " + spec
	default:
		return "CRON_TZ=UTC " + spec
	}
}
