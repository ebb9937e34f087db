package validate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/secretgate/secretgate/internal/redaction"
	"github.com/secretgate/secretgate/internal/types"
)

// Validator checks whether a finding's apparent secret is live. Implementations
// must never place the raw secret into Evidence or Reason.
type Validator interface {
	// Name is globally unique within a registry.
	Name() string
	// RateLimitQPS is the per-validator query budget in queries per second.
	RateLimitQPS() float64
	// RequiresNetwork reports whether Validate performs network I/O. Network
	// validators are skipped entirely unless the policy allows network.
	RequiresNetwork() bool
	// Validate inspects the finding. Blocking work must honor ctx.
	Validate(ctx context.Context, f types.Finding) types.ValidationResult
}

// TokenBucket is a non-blocking rate limiter. Capacity defaults to the qps
// value (one second of burst); Acquire refills from elapsed wall time, then
// either deducts and succeeds or fails immediately. Safe for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	qps      float64
	capacity float64
	tokens   float64
	last     time.Time

	now func() time.Time // test hook
}

// NewTokenBucket returns a full bucket with capacity equal to qps.
func NewTokenBucket(qps float64) *TokenBucket {
	return &TokenBucket{
		qps:      qps,
		capacity: qps,
		tokens:   qps,
		last:     time.Now(),
		now:      time.Now,
	}
}

// Acquire tries to take n tokens. It never blocks and never retries.
func (b *TokenBucket) Acquire(n float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.qps)
	b.last = now
	if b.tokens >= n {
		b.tokens -= n
		return true
	}
	return false
}

// Registry holds validators in registration order plus their rate buckets.
// Build one at process start and pass it into the pipeline; there is no
// package-level default instance.
type Registry struct {
	order   []Validator
	byName  map[string]Validator
	buckets map[string]*TokenBucket
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  map[string]Validator{},
		buckets: map[string]*TokenBucket{},
	}
}

// Register adds a validator. Duplicate names fail at startup, not per call.
func (r *Registry) Register(v Validator) error {
	if _, ok := r.byName[v.Name()]; ok {
		return fmt.Errorf("validator %q already registered", v.Name())
	}
	r.byName[v.Name()] = v
	r.buckets[v.Name()] = NewTokenBucket(v.RateLimitQPS())
	r.order = append(r.order, v)
	return nil
}

// All returns validators in registration order.
func (r *Registry) All() []Validator { return r.order }

// Bucket returns the rate bucket for a registered validator name.
func (r *Registry) Bucket(name string) *TokenBucket { return r.buckets[name] }

// DefaultRegistry builds a registry with the built-in validators.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, v := range []Validator{
		NewSlackWebhookValidator(),
		NewGitHubPATValidator(),
		NewAWSAccessKeyValidator(),
		NewGCPServiceAccountValidator(),
		NewAzureSASValidator(),
	} {
		if err := r.Register(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Options configures a Runner from the policy's validators section.
type Options struct {
	AllowNetwork bool
	GlobalQPS    float64
}

// Runner executes every registered validator against findings. The global
// bucket and the per-validator buckets are shared across findings; they are
// the only mutable state a Runner carries.
type Runner struct {
	registry     *Registry
	global       *TokenBucket
	allowNetwork bool
}

func NewRunner(reg *Registry, opts Options) *Runner {
	qps := opts.GlobalQPS
	if qps <= 0 {
		qps = 2.0
	}
	return &Runner{
		registry:     reg,
		global:       NewTokenBucket(qps),
		allowNetwork: opts.AllowNetwork,
	}
}

// Run produces exactly one ValidationResult per registered validator, in
// registration order. Skipped, rate-limited, cancelled, and panicking
// validators all still occupy their slot as indeterminate; downstream stages
// never see a missing validator.
func (r *Runner) Run(ctx context.Context, f types.Finding) []types.ValidationResult {
	results := make([]types.ValidationResult, 0, len(r.registry.All()))
	for _, v := range r.registry.All() {
		// CI-safety kill switch: enforced before any network attempt and
		// before any token is consumed.
		if v.RequiresNetwork() && !r.allowNetwork {
			results = append(results, types.ValidationResult{
				State:         types.StateIndeterminate,
				Reason:        "network disabled - validator skipped",
				ValidatorName: v.Name(),
			})
			continue
		}
		if ctx.Err() != nil {
			results = append(results, types.ValidationResult{
				State:         types.StateIndeterminate,
				Reason:        "validation cancelled: " + ctx.Err().Error(),
				ValidatorName: v.Name(),
			})
			continue
		}
		if !r.global.Acquire(1) || !r.registry.Bucket(v.Name()).Acquire(1) {
			results = append(results, types.ValidationResult{
				State:         types.StateIndeterminate,
				Reason:        "rate limit exceeded",
				ValidatorName: v.Name(),
			})
			continue
		}
		res := runIsolated(ctx, v, f)
		if res.ValidatorName == "" {
			res.ValidatorName = v.Name()
		}
		results = append(results, redaction.Result(res))
	}
	return results
}

// runIsolated invokes the validator and converts a panic into an
// indeterminate result so one broken validator never aborts the batch.
func runIsolated(ctx context.Context, v Validator, f types.Finding) (res types.ValidationResult) {
	defer func() {
		if p := recover(); p != nil {
			res = types.ValidationResult{
				State:         types.StateIndeterminate,
				Reason:        fmt.Sprintf("validation error: %v", p),
				ValidatorName: v.Name(),
			}
		}
	}()
	return v.Validate(ctx, f)
}
