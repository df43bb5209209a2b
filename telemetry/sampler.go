package telemetry

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultSampleInterval is how often resource gauges are refreshed.
const DefaultSampleInterval = 10 * time.Second

// Run samples host resource usage on the given interval until ctx is
// cancelled. Sampling errors are logged and never stop the loop.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.sample()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Recorder) sample() {
	var g Gauges

	if percents, err := cpu.Percent(0, false); err != nil {
		log.Warn().Err(err).Msg("cpu sample failed")
	} else if len(percents) > 0 {
		g.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("memory sample failed")
	} else {
		g.MemoryPercent = vm.UsedPercent
		g.MemoryUsedMB = float64(vm.Used) / (1024 * 1024)
	}

	if wd, err := os.Getwd(); err == nil {
		if usage, err := disk.Usage(wd); err != nil {
			log.Warn().Err(err).Msg("disk sample failed")
		} else {
			g.DiskPercent = usage.UsedPercent
		}
	}

	r.setGauges(g)
}
