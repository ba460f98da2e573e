package httpserver

import (
	"time"

	"github.com/skillcoder/scaligator/internal/infra/appstate"
	"github.com/skillcoder/scaligator/internal/infra/pinger"
)

// appstater is an internal interface for application state management
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	Components() map[string]pinger.Status
}

type requestRecorder interface {
	RecordHTTPRequest()
}
