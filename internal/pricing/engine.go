package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cart-pricing/internal/domain"
)

const (
	recommendationEmpty       = "Cart is empty"
	recommendationUnavailable = "No promotions available"
	recommendationRegular     = "No promotion applied - regular pricing"
)

// Options is the full evaluation of a cart: every candidate in evaluation
// order, the winner and a sentence describing it.
type Options struct {
	BestOption     domain.PricingResult
	AllOptions     []domain.PricingResult
	Recommendation string
}

// Observer is notified after each evaluation with the winning result and the
// number of candidates that were compared.
type Observer func(best domain.PricingResult, candidates int)

// Option configures an Engine.
type Option func(*Engine)

// WithStrategies replaces the default strategy list. Order is significant.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Engine) {
		e.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithObserver installs an evaluation hook.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// Engine picks the cheapest pricing option for a cart. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	strategies []Strategy
	observer   Observer
}

// NewEngine builds an engine using DefaultStrategies unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategies returns the strategy names in evaluation order.
func (e *Engine) Strategies() []string {
	names := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		names = append(names, s.Name())
	}
	return names
}

// CalculateBestPrice returns the cheapest option for the cart. Ties go to the
// earliest candidate: strategies in list order, then the no-promotion baseline.
func (e *Engine) CalculateBestPrice(cart domain.Cart, customer domain.Customer) (domain.PricingResult, error) {
	opts, err := e.CalculateAllOptions(cart, customer)
	if err != nil {
		return domain.PricingResult{}, err
	}
	return opts.BestOption, nil
}

// CalculateAllOptions evaluates every applicable strategy plus the baseline
// and explains which one wins.
func (e *Engine) CalculateAllOptions(cart domain.Cart, customer domain.Customer) (Options, error) {
	if cart.IsEmpty() {
		base := domain.NoPromotion(decimal.Zero)
		return e.finish(Options{
			BestOption:     base,
			AllOptions:     []domain.PricingResult{base},
			Recommendation: recommendationEmpty,
		}), nil
	}

	applicable := e.applicable(cart, customer)
	if len(applicable) == 0 {
		base := domain.NoPromotion(cart.TotalPrice())
		return e.finish(Options{
			BestOption:     base,
			AllOptions:     []domain.PricingResult{base},
			Recommendation: recommendationUnavailable,
		}), nil
	}

	candidates := make([]domain.PricingResult, 0, len(applicable)+1)
	for _, s := range applicable {
		res, err := s.Calculate(cart, customer)
		if err != nil {
			return Options{}, fmt.Errorf("calculate %s: %w", s.Name(), err)
		}
		candidates = append(candidates, res)
	}
	candidates = append(candidates, domain.NoPromotion(cart.TotalPrice()))

	best := cheapest(candidates)
	return e.finish(Options{
		BestOption:     best,
		AllOptions:     candidates,
		Recommendation: recommend(best),
	}), nil
}

func (e *Engine) applicable(cart domain.Cart, customer domain.Customer) []Strategy {
	out := make([]Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		if s.CanApply(cart, customer) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) finish(opts Options) Options {
	if e.observer != nil {
		e.observer(opts.BestOption, len(opts.AllOptions))
	}
	return opts
}

// cheapest folds left keeping the running best unless a later candidate is
// strictly cheaper.
func cheapest(candidates []domain.PricingResult) domain.PricingResult {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.FinalPrice().LessThan(best.FinalPrice()) {
			best = c
		}
	}
	return best
}

func recommend(best domain.PricingResult) string {
	if best.PromotionType() == domain.PromotionNone {
		return recommendationRegular
	}
	return fmt.Sprintf("Best deal: %s. You save $%s (%s%% off)",
		best.Description(),
		best.Discount().StringFixed(2),
		best.SavingsPercentage().StringFixed(1),
	)
}
