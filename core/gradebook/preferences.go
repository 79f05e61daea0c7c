package gradebook

import "sync"

// Preference is a notification category switch.
type Preference string

const (
	PrefGradeUpdates         Preference = "gradeUpdates"
	PrefThresholdAlerts      Preference = "thresholdAlerts"
	PrefClassAverageChanges  Preference = "classAverageChanges"
	PrefGradeReviewReminders Preference = "gradeReviewReminders"
)

// AllPreferences lists the four fixed categories.
var AllPreferences = []Preference{
	PrefGradeUpdates,
	PrefThresholdAlerts,
	PrefClassAverageChanges,
	PrefGradeReviewReminders,
}

// Preferences gates every notification type; the four flags are independent.
type Preferences struct {
	mutex sync.RWMutex
	flags map[Preference]bool
}

// NewPreferences returns the gate with all categories enabled.
func NewPreferences() *Preferences {
	flags := make(map[Preference]bool, len(AllPreferences))
	for _, p := range AllPreferences {
		flags[p] = true
	}
	return &Preferences{flags: flags}
}

func (p *Preferences) Enabled(pref Preference) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.flags[pref]
}

// Toggle flips one flag; unknown categories are ignored.
func (p *Preferences) Toggle(pref Preference) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, ok := p.flags[pref]; ok {
		p.flags[pref] = !p.flags[pref]
	}
}

// All returns a snapshot of the current flags.
func (p *Preferences) All() map[Preference]bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	flags := make(map[Preference]bool, len(p.flags))
	for pref, on := range p.flags {
		flags[pref] = on
	}
	return flags
}
