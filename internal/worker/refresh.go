package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/territory"
)

// TerritorySource is the slice of territory.Service the warm job needs.
type TerritorySource interface {
	Refresh(ctx context.Context) error
	ActiveSnapshot(ctx context.Context) ([]territory.Territory, error)
}

// WarmJob forces a territory snapshot refresh and reports per-region
// coverage. Keeping the snapshot warm means the first collision check of a
// session never waits on the game server.
type WarmJob struct {
	config  WarmConfig
	logger  zerolog.Logger
	source  TerritorySource
	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	SuccessfulRuns int64
	FailedRuns     int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration

	LastTerritoryCount int
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config WarmConfig
	Logger zerolog.Logger
	Source TerritorySource
}

// NewWarmJob creates a new warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Regions) == 0 {
		config.Regions = DefaultRegions()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &WarmJob{
		config:  config,
		logger:  cfg.Logger,
		source:  cfg.Source,
		metrics: &WarmMetrics{},
	}
}

// WarmResult contains the result of a warm run.
type WarmResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalTerritory int
	Regions        []RegionStats
	OutsideRegions int
	Err            error
}

// RegionStats is the coverage report for one region.
type RegionStats struct {
	Region           string
	Territories      int
	AreaSquareMeters float64
}

// Run refreshes the territory snapshot and computes coverage stats.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	startTime := time.Now()
	result := &WarmResult{StartTime: startTime}

	j.logger.Info().
		Int("regions", len(j.config.Regions)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting territory warm job")

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if err := j.source.Refresh(runCtx); err != nil {
		result.Err = err
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		j.updateMetrics(result)
		j.logger.Error().Err(err).Msg("territory warm job failed")
		return result
	}

	territories, err := j.source.ActiveSnapshot(runCtx)
	if err != nil {
		result.Err = err
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		j.updateMetrics(result)
		j.logger.Error().Err(err).Msg("territory warm job failed")
		return result
	}
	result.TotalTerritory = len(territories)

	// Fan regions out over a small worker pool. Containment checks are
	// cheap but snapshots can hold tens of thousands of territories.
	regionsChan := make(chan Region, len(j.config.Regions))
	statsChan := make(chan RegionStats, len(j.config.Regions))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for region := range regionsChan {
				select {
				case <-runCtx.Done():
					return
				default:
					statsChan <- scanRegion(region, territories)
				}
			}
		}()
	}

	for _, r := range j.config.Regions {
		regionsChan <- r
	}
	close(regionsChan)

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	counted := 0
	for stats := range statsChan {
		result.Regions = append(result.Regions, stats)
		counted += stats.Territories
	}
	result.OutsideRegions = result.TotalTerritory - counted

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("territories", result.TotalTerritory).
		Int("outside_regions", result.OutsideRegions).
		Msg("territory warm job completed")

	return result
}

// scanRegion counts the snapshot territories whose centroid falls inside
// the region and sums their area.
func scanRegion(region Region, territories []territory.Territory) RegionStats {
	stats := RegionStats{Region: region.Name}
	for i := range territories {
		centroid := territories[i].Polygon().Centroid()
		if region.Contains(centroid) {
			stats.Territories++
			stats.AreaSquareMeters += territories[i].AreaSquareMeters
		}
	}
	return stats
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if result.Err != nil {
		j.metrics.FailedRuns++
	} else {
		j.metrics.SuccessfulRuns++
		j.metrics.LastTerritoryCount = result.TotalTerritory
	}
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		SuccessfulRuns:     j.metrics.SuccessfulRuns,
		FailedRuns:         j.metrics.FailedRuns,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
		TotalDuration:      j.metrics.TotalDuration,
		LastTerritoryCount: j.metrics.LastTerritoryCount,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":           m.TotalRuns,
		"successful_runs":      m.SuccessfulRuns,
		"failed_runs":          m.FailedRuns,
		"last_run_at":          m.LastRunAt,
		"last_run_duration":    m.LastRunDuration.String(),
		"total_duration":       m.TotalDuration.String(),
		"last_territory_count": m.LastTerritoryCount,
	}
}
