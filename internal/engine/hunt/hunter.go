package hunt

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"avesto/internal/domain/models"
	domrepo "avesto/internal/domain/repository"
	"avesto/internal/domain/service"
	"avesto/pkg/config"
	"avesto/pkg/logger"
)

// Hunter fans a profile snapshot out to every registered detector, then
// dedupes, ranks and truncates the findings.
//
// A detector fault (error or panic) drops that detector's findings and nothing
// else; the hunt itself only fails on an empty profile.
type Hunter struct {
	cfg       config.EngineConfig
	detectors []service.Detector
	log       *logger.Logger
	metrics   domrepo.Metrics
}

func New(cfg config.EngineConfig, log *logger.Logger, m domrepo.Metrics, detectors []service.Detector) *Hunter {
	return &Hunter{cfg: cfg, detectors: detectors, log: log, metrics: m}
}

func (h *Hunter) Hunt(ctx context.Context, p *models.FinancialProfile, maxResults int) ([]models.Opportunity, error) {
	if p.Empty() {
		return nil, service.ErrEmptyProfile
	}
	if maxResults <= 0 {
		maxResults = h.cfg.MaxOpportunities
	}

	start := time.Now()
	drv := p.Derive()

	type item struct {
		idx  int
		name string
		opps []models.Opportunity
		err  error
	}
	ch := make(chan item, len(h.detectors))
	var wg sync.WaitGroup

	for i, det := range h.detectors {
		wg.Add(1)
		go func(idx int, det service.Detector) {
			defer wg.Done()
			opps, err := runDetector(det, p, drv)
			ch <- item{idx, det.Name(), opps, err}
		}(i, det)
	}

	go func() { wg.Wait(); close(ch) }()

	byIdx := make([][]models.Opportunity, len(h.detectors))
	for it := range ch {
		if it.err != nil {
			h.log.Warn("detector fault",
				logger.String("detector", it.name),
				logger.Error(it.err))
			if h.metrics != nil {
				h.metrics.RecordDetectorFault(it.name)
			}
			continue
		}
		byIdx[it.idx] = it.opps
	}

	ranked := rank(byIdx)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	if h.metrics != nil {
		h.metrics.RecordHunt(len(ranked), time.Since(start).Seconds())
	}
	return ranked, nil
}

// runDetector isolates a single detector call, converting panics to errors.
func runDetector(det service.Detector, p *models.FinancialProfile, drv models.Derived) (opps []models.Opportunity, err error) {
	defer func() {
		if r := recover(); r != nil {
			opps = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return det.Detect(p, drv)
}

// candidate pairs an opportunity with its detector registration index, the
// final ranking tie-break.
type candidate struct {
	opp models.Opportunity
	idx int
}

// rank dedupes by (category, detector) keeping the higher value, then orders
// by impact score descending, effort ascending, registration order.
func rank(byIdx [][]models.Opportunity) []models.Opportunity {
	type key struct {
		category string
		detector string
	}
	best := map[key]candidate{}
	var order []key

	for idx, opps := range byIdx {
		for _, o := range opps {
			k := key{o.Category, o.SupportingDetector}
			cur, seen := best[k]
			if !seen {
				best[k] = candidate{o, idx}
				order = append(order, k)
				continue
			}
			if o.PotentialAnnualValue > cur.opp.PotentialAnnualValue {
				best[k] = candidate{o, idx}
			}
		}
	}

	out := make([]candidate, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.opp.ImpactScore() != b.opp.ImpactScore() {
			return a.opp.ImpactScore() > b.opp.ImpactScore()
		}
		if a.opp.Effort.Rank() != b.opp.Effort.Rank() {
			return a.opp.Effort.Rank() < b.opp.Effort.Rank()
		}
		return a.idx < b.idx
	})

	res := make([]models.Opportunity, len(out))
	for i, c := range out {
		res[i] = c.opp
	}
	return res
}
