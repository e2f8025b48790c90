package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles with gradual rollout. Rollout buckets
// are derived from the candidate's matricule so that a candidate always
// lands in the same bucket.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Per-candidate overrides (support and debugging)
	overrides map[string]map[string]bool // matricule -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	RolloutPercent int

	// Training contexts the feature is restricted to (empty = all)
	TargetContextes []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	Matricule string
	Contexte  string
}

// Predefined feature flag names.
const (
	// === Infrastructure ===
	FeatureCachePropositions = "cache.propositions" // Redis read-through cache
	FeatureMetrics           = "observability.metrics"

	// === Scheduler ===
	FeatureJobVerifierPaiements   = "scheduler.verifier_paiements"
	FeatureJobRecalculerDocuments = "scheduler.recalculer_documents"

	// === Candidate communication ===
	FeatureNotificationsCandidat = "notifications.candidat"
	FeatureHistorique            = "historique.actions"
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := NewFeatureFlags()
	ff.loadFromEnvironment()
	return ff
}

// NewFeatureFlags returns the flags with their default values.
func NewFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:  make(map[string]*Feature),
		overrides: make(map[string]map[string]bool),
	}
	ff.initializeDefaults()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	for _, f := range []Feature{
		{Name: FeatureCachePropositions, Description: "Cache propositions in Redis", Enabled: true, RolloutPercent: 100},
		{Name: FeatureMetrics, Description: "Expose Prometheus metrics", Enabled: true, RolloutPercent: 100},
		{Name: FeatureJobVerifierPaiements, Description: "Poll the payment provider for pending fees", Enabled: true, RolloutPercent: 100},
		{Name: FeatureJobRecalculerDocuments, Description: "Nightly recomputation of document slots", Enabled: true, RolloutPercent: 100},
		{Name: FeatureNotificationsCandidat, Description: "Send messages to candidates", Enabled: true, RolloutPercent: 100},
		{Name: FeatureHistorique, Description: "Record the action history", Enabled: true, RolloutPercent: 100},
	} {
		f := f
		ff.features[f.Name] = &f
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_NOTIFICATIONS_CANDIDAT=25 (25% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		val := os.Getenv(featureNameToEnvKey(name))
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			if b {
				feature.RolloutPercent = 100
			} else {
				feature.RolloutPercent = 0
			}
			continue
		}
		if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
			feature.Enabled = p > 0
			feature.RolloutPercent = p
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "cache.propositions" -> "FEATURE_CACHE_PROPOSITIONS"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context. A nil
// context asks whether the feature is on at all.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()
	return ff.isEnabledLocked(featureName, ctx, time.Now())
}

func (ff *FeatureFlags) isEnabledLocked(featureName string, ctx *FeatureContext, now time.Time) bool {
	if ctx != nil && ctx.Matricule != "" {
		if enabled, ok := ff.overrides[ctx.Matricule][featureName]; ok {
			return enabled
		}
	}

	feature, ok := ff.features[featureName]
	if !ok || !feature.Enabled {
		return false
	}

	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	if len(feature.TargetContextes) > 0 && ctx != nil && ctx.Contexte != "" {
		match := false
		for _, c := range feature.TargetContextes {
			if c == ctx.Contexte {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if feature.RolloutPercent < 100 && ctx != nil && ctx.Matricule != "" {
		return inRollout(ctx.Matricule, featureName, feature.RolloutPercent)
	}
	return feature.RolloutPercent > 0
}

// inRollout maps matricule+feature to a stable 0-99 bucket.
func inRollout(matricule, featureName string, percent int) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(featureName))
	_, _ = h.Write([]byte(matricule))
	return int(h.Sum32()%100) < percent
}

// SetOverride forces a feature on or off for one candidate.
func (ff *FeatureFlags) SetOverride(matricule, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.overrides[matricule]; !ok {
		ff.overrides[matricule] = make(map[string]bool)
	}
	ff.overrides[matricule][featureName] = enabled
}

// ClearOverrides removes all overrides for a candidate.
func (ff *FeatureFlags) ClearOverrides(matricule string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.overrides, matricule)
}

// SetRolloutPercent updates the rollout percentage for a feature.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0
	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]Feature, len(ff.features))
	for k, v := range ff.features {
		result[k] = *v
	}
	return result
}

// NotificationsFor reports whether the candidate receives messages.
func (ff *FeatureFlags) NotificationsFor(matricule string) bool {
	return ff.IsEnabled(FeatureNotificationsCandidat, &FeatureContext{Matricule: matricule})
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
