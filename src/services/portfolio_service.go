package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
	"cryptotracker/src/utils/metrics"
)

// ErrStalePass is returned by a pass that was superseded by a newer pass for the same
// session before it could commit.
var ErrStalePass = errors.New("portfolio pass superseded by a newer pass")

type PortfolioServiceI interface {
	LoadPortfolio(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.PortfolioSnapshot, error)
	Latest(session *schemas.Session) (*schemas.PortfolioSnapshot, bool)
	ComputePortfolioMetrics(ctx context.Context, session *schemas.Session, holdings []schemas.Holding) (*schemas.PortfolioMetrics, error)
}

// passState tracks the newest pass and the last committed snapshot of one session.
type passState struct {
	generation uint64
	cancel     context.CancelFunc
	snapshot   *schemas.PortfolioSnapshot
}

type PortfolioService struct {
	holdings HoldingsServiceI
	resolver *PriceResolver
	broker   AlertBroker
	recorder *metrics.Recorder
	now      func() time.Time

	// retention is how long an idle session keeps its committed snapshot.
	retention time.Duration
	lastEvict time.Time

	mutex  sync.Mutex
	passes map[string]*passState

	// publishMutex orders alert publications with commits.
	publishMutex sync.Mutex
}

func NewPortfolioService(holdings HoldingsServiceI, resolver *PriceResolver, broker AlertBroker, recorder *metrics.Recorder, retention time.Duration) *PortfolioService {
	return &PortfolioService{
		holdings:  holdings,
		resolver:  resolver,
		broker:    broker,
		recorder:  recorder,
		now:       time.Now,
		retention: retention,
		passes:    make(map[string]*passState),
	}
}

// begin registers a new pass for key, cancelling the one in flight.
func (s *PortfolioService) begin(ctx context.Context, key string) (context.Context, uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.evict(key)
	state, ok := s.passes[key]
	if !ok {
		state = &passState{}
		s.passes[key] = state
	}
	if state.cancel != nil {
		state.cancel()
	}
	state.generation++

	passCtx, cancel := context.WithCancel(ctx)
	state.cancel = cancel
	return passCtx, state.generation
}

// evict forgets sessions with no pass in flight whose snapshot is older than the
// retention. It runs at most once per retention and must be called with the mutex held.
func (s *PortfolioService) evict(current string) {
	now := s.now()
	if now.Sub(s.lastEvict) < s.retention {
		return
	}
	s.lastEvict = now
	for key, state := range s.passes {
		if key == current || state.cancel != nil {
			continue
		}
		if state.snapshot == nil || now.Sub(state.snapshot.ComputedAt) > s.retention {
			delete(s.passes, key)
		}
	}
}

func (s *PortfolioService) isCurrent(key string, generation uint64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	state, ok := s.passes[key]
	return ok && state.generation == generation
}

// finish releases the context of a pass; the committed snapshot is only replaced when
// the pass is still the newest one.
func (s *PortfolioService) finish(key string, generation uint64, snapshot *schemas.PortfolioSnapshot) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := s.passes[key]
	if state == nil || state.generation != generation {
		return false
	}
	state.cancel()
	state.cancel = nil
	if snapshot != nil {
		state.snapshot = snapshot
	}
	return true
}

// LoadPortfolio runs one aggregation pass for the session: holdings, concurrent price
// and P&L resolution, metrics and risk alerts. Starting a pass cancels any earlier pass
// of the same session, and only the newest pass commits its snapshot. Superseded passes
// return ErrStalePass.
func (s *PortfolioService) LoadPortfolio(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.PortfolioSnapshot, error) {
	if !session.Valid() {
		return nil, utils.Unauthorized("missing session token")
	}
	key := session.Key()
	started := time.Now()

	passCtx, generation := s.begin(ctx, key)
	logger := utils.LoggerFromContext(ctx).WithField("generation", generation)
	passCtx = utils.WithLogger(passCtx, logger)

	snapshot, err := s.run(passCtx, session, refresh)
	if err != nil {
		if !s.isCurrent(key, generation) {
			s.recorder.ObservePass(metrics.PassStale, time.Since(started))
			logger.Debugf("portfolio pass superseded: %v", err)
			return nil, ErrStalePass
		}
		s.finish(key, generation, nil)
		if ctx.Err() != nil {
			s.recorder.ObservePass(metrics.PassCancelled, time.Since(started))
			return nil, ctx.Err()
		}
		s.recorder.ObservePass(metrics.PassFailed, time.Since(started))
		return nil, err
	}
	snapshot.Generation = generation

	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	if !s.finish(key, generation, snapshot) {
		s.recorder.ObservePass(metrics.PassStale, time.Since(started))
		logger.Debug("portfolio pass finished after a newer pass started, discarding")
		return nil, ErrStalePass
	}
	s.recorder.ObservePass(metrics.PassCommitted, time.Since(started))
	logger.WithField("assets", len(snapshot.Assets)).Info("portfolio pass committed")

	if s.broker != nil {
		if err := s.broker.Publish(ctx, key, snapshot.Alerts); err != nil {
			logger.Errorf("failed to publish risk alerts: %v", err)
		} else {
			s.recorder.ObserveAlerts(len(snapshot.Alerts))
		}
	}
	return snapshot, nil
}

func (s *PortfolioService) run(ctx context.Context, session *schemas.Session, refresh bool) (*schemas.PortfolioSnapshot, error) {
	holdings, err := s.holdings.LoadHoldings(ctx, session, refresh)
	if err != nil {
		return nil, err
	}

	assets, err := s.resolver.ResolveAll(ctx, session, holdings.Holdings)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &schemas.PortfolioSnapshot{
		Metrics:       CalculateMetrics(assets),
		Assets:        assets,
		Alerts:        BuildRiskAlerts(assets, now),
		NoData:        holdings.NoData,
		SourcesFailed: holdings.SourcesFailed,
		ComputedAt:    now,
	}, nil
}

// Latest returns the snapshot of the newest committed pass of the session.
func (s *PortfolioService) Latest(session *schemas.Session) (*schemas.PortfolioSnapshot, bool) {
	if !session.Valid() {
		return nil, false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.passes[session.Key()]
	if !ok || state.snapshot == nil {
		return nil, false
	}
	return state.snapshot, true
}

// ComputePortfolioMetrics values the given holdings without touching committed state.
func (s *PortfolioService) ComputePortfolioMetrics(ctx context.Context, session *schemas.Session, holdings []schemas.Holding) (*schemas.PortfolioMetrics, error) {
	assets, err := s.resolver.ResolveAll(ctx, session, holdings)
	if err != nil {
		return nil, err
	}
	m := CalculateMetrics(assets)
	return &m, nil
}
