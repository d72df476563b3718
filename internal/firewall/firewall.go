package firewall

import (
	"sort"
	"sync"

	"github.com/aida0710/rdb-tunnel-go/internal/packet"
)

// Firewall holds a priority-ordered rule list and a policy mode, mirroring
// StaticFilter's singleton rule table but scoped per-instance rather than
// a process-wide singleton (spec.md names no singleton requirement).
type Firewall struct {
	mu     sync.RWMutex
	policy Policy
	rules  []Rule
	sorted bool
}

// New builds an empty Firewall under the given policy.
func New(policy Policy) *Firewall {
	return &Firewall{policy: policy}
}

// AddRule appends a rule and invalidates the cached priority ordering.
func (fw *Firewall) AddRule(rule Rule) *Firewall {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.rules = append(fw.rules, rule)
	fw.sorted = false
	return fw
}

// Check scans rules highest-priority first. Under Blacklist, any match
// denies; under Whitelist, any match allows. Absence of a match yields
// the policy's default.
func (fw *Firewall) Check(pkt packet.Packet) Decision {
	fw.mu.Lock()
	if !fw.sorted {
		sort.SliceStable(fw.rules, func(i, j int) bool {
			return fw.rules[i].Priority > fw.rules[j].Priority
		})
		fw.sorted = true
	}
	rules := fw.rules
	fw.mu.Unlock()

	for _, r := range rules {
		if r.Filter.Matches(pkt) {
			return fw.policy.matchAction()
		}
	}
	return fw.policy.defaultAction()
}
