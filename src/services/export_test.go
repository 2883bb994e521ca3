package services

// CachedSessions reports how many sessions hold a holdings cache.
func (s *HoldingsService) CachedSessions() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.caches)
}

// TrackedSessions reports how many sessions the portfolio service remembers.
func (s *PortfolioService) TrackedSessions() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.passes)
}
