package host

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
)

// SystemInfo is the device and runtime record reported by the platform.
type SystemInfo struct {
	Brand        string  `json:"brand,omitempty"`
	Model        string  `json:"model,omitempty"`
	PixelRatio   float64 `json:"pixelRatio,omitempty"`
	ScreenWidth  int     `json:"screenWidth,omitempty"`
	ScreenHeight int     `json:"screenHeight,omitempty"`
	WindowWidth  int     `json:"windowWidth,omitempty"`
	WindowHeight int     `json:"windowHeight,omitempty"`
	Language     string  `json:"language,omitempty"`
	Version      string  `json:"version,omitempty"`
	System       string  `json:"system,omitempty"`
	Platform     string  `json:"platform"`
	SDKVersion   string  `json:"SDKVersion,omitempty"`

	Hostname  string    `json:"hostname,omitempty"`
	GoVersion string    `json:"goVersion,omitempty"`
	Arch      string    `json:"arch,omitempty"`
	CPUs      int       `json:"cpus,omitempty"`
	QueriedAt time.Time `json:"queriedAt"`
}

// SystemQuerier resolves the system record once per call.
type SystemQuerier interface {
	SystemInfo(ctx context.Context) (*SystemInfo, error)
}

// SystemQuerierFunc adapts a function to SystemQuerier.
type SystemQuerierFunc func(ctx context.Context) (*SystemInfo, error)

// SystemInfo implements SystemQuerier.
func (f SystemQuerierFunc) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	return f(ctx)
}

// RuntimeQuerier reports the Go runtime and host OS as the system record.
type RuntimeQuerier struct {
	Platform   string
	Language   string
	Version    string
	SDKVersion string
}

// NewRuntimeQuerier creates a querier for the current process.
func NewRuntimeQuerier(platform, version string) *RuntimeQuerier {
	if platform == "" {
		platform = runtime.GOOS
	}
	return &RuntimeQuerier{
		Platform:   platform,
		Language:   os.Getenv("LANG"),
		Version:    version,
		SDKVersion: runtime.Version(),
	}
}

// SystemInfo implements SystemQuerier.
func (q *RuntimeQuerier) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.New(apperr.HostQueryFailed, "system info", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, apperr.New(apperr.HostQueryFailed, "system info", err)
	}

	return &SystemInfo{
		Brand:      "go",
		Model:      runtime.GOARCH,
		PixelRatio: 1,
		Language:   q.Language,
		Version:    q.Version,
		System:     runtime.GOOS,
		Platform:   q.Platform,
		SDKVersion: q.SDKVersion,
		Hostname:   hostname,
		GoVersion:  runtime.Version(),
		Arch:       runtime.GOARCH,
		CPUs:       runtime.NumCPU(),
		QueriedAt:  time.Now(),
	}, nil
}
