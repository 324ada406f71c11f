// Package hostinfo identifies the machine the agent runs on. The
// monitored asset itself is synthetic; host identity is logged once at
// startup so operators can tell agents apart.
package hostinfo

import (
	"context"

	"github.com/shirou/gopsutil/v3/host"
)

// Info holds the host identification collected at startup.
type Info struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
}

// Collect gathers host identification. Best-effort: on failure it
// returns whatever gopsutil could determine along with the error.
func Collect(ctx context.Context) (Info, error) {
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Hostname:        hi.Hostname,
		OS:              hi.OS,
		Platform:        hi.Platform,
		PlatformVersion: hi.PlatformVersion,
		UptimeSeconds:   hi.Uptime,
	}, nil
}
