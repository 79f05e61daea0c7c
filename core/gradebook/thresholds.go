package gradebook

import "sync"

// ThresholdStore holds the current grade cutoffs. Set replaces the whole map
// atomically; readers never observe a partial update. No monotonicity or range
// validation is performed; that is the caller's responsibility.
type ThresholdStore struct {
	mutex      sync.RWMutex
	thresholds ThresholdMap
}

func NewThresholdStore(thresholds ThresholdMap) *ThresholdStore {
	s := &ThresholdStore{}
	s.Set(thresholds)
	return s
}

func (s *ThresholdStore) Get() ThresholdMap {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tm := make(ThresholdMap, len(s.thresholds))
	copy(tm, s.thresholds)
	return tm
}

func (s *ThresholdStore) Set(thresholds ThresholdMap) {
	tm := make(ThresholdMap, len(thresholds))
	copy(tm, thresholds)

	s.mutex.Lock()
	s.thresholds = tm
	s.mutex.Unlock()
}
