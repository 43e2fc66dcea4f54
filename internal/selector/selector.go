package selector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/metrics"
	"github.com/hamed0406/endpointkit/internal/probe"
)

// diagnoseBudget bounds one round of background DNS diagnosis.
var diagnoseBudget = 3 * time.Second

// Selector races candidate endpoints and ranks them by latency.
type Selector struct {
	Logger *zap.Logger
	Runner *probe.Runner
	// Resolver, when set, adds a DNS diagnosis line for failed results in
	// debug reports. Diagnosis runs in the background after results return.
	Resolver probe.Resolver
}

func New(logger *zap.Logger, runner *probe.Runner) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{Logger: logger, Runner: runner}
}

// SelectFastest probes every url and returns one ranked result per url, in
// input order. It never fails: probe failures live in the results. With
// debug set, each result is also reported through the logger.
func (s *Selector) SelectFastest(ctx context.Context, urls []string, debug bool) []domain.RankedResult {
	if len(urls) == 0 {
		if debug {
			s.Logger.Warn("select_empty_input")
		}
		return []domain.RankedResult{}
	}

	outcomes := s.Runner.Run(ctx, urls)
	for _, o := range outcomes {
		metrics.ObserveProbe(string(o.Kind), o.Elapsed)
	}
	metrics.ObserveSelection()

	results := Rank(outcomes)
	if debug {
		s.report(ctx, results)
	}
	return results
}

func (s *Selector) report(ctx context.Context, results []domain.RankedResult) {
	for _, r := range results {
		tag := "NORMAL"
		if r.IsFastest {
			tag = "FASTEST"
		}
		s.Logger.Info("select_result",
			zap.String("tag", tag),
			zap.String("url", r.URL),
			zap.Float64("elapsed_ms", r.ElapsedTimeMS),
			zap.Bool("failed", r.Failed),
		)
		if r.ErrorMessage != nil {
			s.Logger.Info("select_result_error",
				zap.String("url", r.URL),
				zap.String("error", *r.ErrorMessage),
			)
		}
	}

	if s.Resolver == nil {
		return
	}
	var failed []string
	for _, r := range results {
		if r.Failed {
			failed = append(failed, r.URL)
		}
	}
	if len(failed) > 0 {
		go s.diagnose(context.WithoutCancel(ctx), failed)
	}
}

// diagnose resolves the hosts of failed endpoints concurrently, all under
// one diagnoseBudget deadline.
func (s *Selector) diagnose(ctx context.Context, urls []string) {
	ctx, cancel := context.WithTimeout(ctx, diagnoseBudget)
	defer cancel()

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			dns := probe.DiagnoseDNS(ctx, s.Resolver, u)
			s.Logger.Info("select_result_dns",
				zap.String("url", u),
				zap.String("host", dns.Host),
				zap.String("class", string(dns.Class)),
				zap.String("cname", dns.CNAME),
				zap.Strings("nameservers", dns.Nameservers),
				zap.String("resolver_error", dns.ResolverError),
			)
		}(u)
	}
	wg.Wait()
}
