package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentic_recommendation/pkg/core/buyplan"
	"agentic_recommendation/pkg/core/compare"
	"agentic_recommendation/pkg/core/price"
	"agentic_recommendation/pkg/core/review"
	"agentic_recommendation/pkg/core/search"
)

// Per-task deadlines. Review analysis is the slowest LLM path; the global
// ceiling covers the whole fan-in because tasks run in parallel, not in sum.
const (
	reviewTimeout  = 60 * time.Second
	priceTimeout   = 30 * time.Second
	compareTimeout = 100 * time.Second
	buyplanTimeout = 8 * time.Second
	globalTimeout  = 120 * time.Second

	maxCompareSet = 5
)

// Task names for fan-in bookkeeping and logs.
const (
	taskReviews    = "reviews"
	taskPrices     = "prices"
	taskComparison = "comparison"
	taskBuyPlan    = "buy_plan"
)

// Searcher retrieves ranked products for a query.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// ReviewAnalyzer analyzes customer reviews for one product.
type ReviewAnalyzer interface {
	Analyze(ctx context.Context, productID int64) (*review.Analysis, error)
}

// PriceAnalyzer analyzes price history for one product.
type PriceAnalyzer interface {
	Analyze(ctx context.Context, productID int64) (*price.Analysis, error)
}

// Comparator compares a set of products.
type Comparator interface {
	Compare(ctx context.Context, productIDs []int64, style string) (*compare.Result, error)
}

// Planner builds the purchase plan for the top product.
type Planner interface {
	CreatePlan(ctx context.Context, productID int64, preference string) (*buyplan.Plan, error)
}

// ModelSource reports the active LLM provider, for response metadata.
type ModelSource interface {
	GetActiveProvider() string
}

// Orchestrator coordinates the five agents behind one request: search first,
// then reviews, prices, comparison and buy plan all in parallel, then one
// combined response.
type Orchestrator struct {
	searcher   Searcher
	reviews    ReviewAnalyzer
	prices     PriceAnalyzer
	comparator Comparator
	planner    Planner
	llm        ModelSource
}

// NewOrchestrator wires the orchestrator to its agents. llm may be nil; the
// other collaborators must not be.
func NewOrchestrator(searcher Searcher, reviews ReviewAnalyzer, prices PriceAnalyzer, comparator Comparator, planner Planner, llm ModelSource) *Orchestrator {
	return &Orchestrator{
		searcher:   searcher,
		reviews:    reviews,
		prices:     prices,
		comparator: comparator,
		planner:    planner,
		llm:        llm,
	}
}

// taskResult is one completed fan-out task. Exactly one payload field is set,
// matching name.
type taskResult struct {
	name       string
	reviews    map[int64]*review.Analysis
	prices     map[int64]*price.Analysis
	comparison *compare.Result
	plan       *buyplan.Plan
}

// gatherState is everything the fan-in collected, handed to the assembler.
type gatherState struct {
	products        []search.RankedProduct
	reviews         map[int64]*review.Analysis
	prices          map[int64]*price.Analysis
	comparison      *compare.Result
	compareLaunched bool
	plan            *buyplan.Plan
}

// Orchestrate runs the full recommendation workflow for one request. The
// response is success=false only when retrieval finds nothing; analysis
// failures and timeouts degrade per-block. A non-nil error means the search
// itself failed hard.
func (o *Orchestrator) Orchestrate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	requestID := uuid.New().String()

	topN := req.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}

	fmt.Printf("[ORCHESTRATE] %s: query %q, top %d\n", requestID, req.Query, topN)

	searchResult, err := o.searcher.Search(ctx, search.Request{
		Query:    req.Query,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    topN,
	})
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}
	if !searchResult.Success || len(searchResult.Products) == 0 {
		fmt.Printf("[ORCHESTRATE] %s: no products for %q\n", requestID, req.Query)
		return &Response{
			Success: false,
			Error:   "No products found matching your query",
			Query:   req.Query,
		}, nil
	}

	products := searchResult.Products
	if len(products) > topN {
		products = products[:topN]
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	state := o.gather(ctx, requestID, req, products, ids)

	response := o.assemble(req.Query, requestID, state, time.Since(start))
	fmt.Printf("[ORCHESTRATE] %s: done in %.2fs, %d products\n",
		requestID, response.ExecutionTimeSeconds, len(response.Products))
	return response, nil
}

// gather launches the analysis tasks and collects their results, giving up
// at the global ceiling and keeping whatever finished by then. Slots that
// miss the ceiling are filled with timeout results so every launched task
// still surfaces in the response.
func (o *Orchestrator) gather(ctx context.Context, requestID string, req Request, products []search.RankedProduct, ids []int64) gatherState {
	state := gatherState{products: products}

	// Buffered to task count so stragglers can always deliver and exit.
	results := make(chan taskResult, 4)
	launched := 0

	launched++
	go func() { results <- o.reviewAll(ctx, ids) }()

	launched++
	go func() { results <- o.priceAll(ctx, ids) }()

	compareIDs := ids
	if len(compareIDs) > maxCompareSet {
		compareIDs = compareIDs[:maxCompareSet]
	}
	if len(compareIDs) >= 2 {
		state.compareLaunched = true
		launched++
		go func() { results <- o.compareTask(ctx, compareIDs) }()
	} else {
		fmt.Printf("[ORCHESTRATE] %s: comparison %s, single product\n", requestID, TaskSkipped)
	}

	preference := req.UserPreference
	if preference == "" {
		preference = DefaultPreference
	}
	launched++
	go func() { results <- o.planTask(ctx, ids[0], preference) }()

	fmt.Printf("[ORCHESTRATE] %s: launched %d tasks for %d products\n", requestID, launched, len(ids))

	received := 0
	ceiling := time.After(globalTimeout)
harvest:
	for received < launched {
		select {
		case result := <-results:
			received++
			switch result.name {
			case taskReviews:
				state.reviews = result.reviews
			case taskPrices:
				state.prices = result.prices
			case taskComparison:
				state.comparison = result.comparison
			case taskBuyPlan:
				state.plan = result.plan
			}
		case <-ceiling:
			fmt.Printf("[ORCHESTRATE] %s: global ceiling reached, %d/%d tasks %s\n",
				requestID, received, launched, TaskCompleted)
			break harvest
		}
	}

	// Fill slots the ceiling cut off. Reviews and prices stay nil maps; the
	// assembler renders those as unavailable per product.
	if state.compareLaunched && state.comparison == nil {
		state.comparison = &compare.Result{Success: false, Error: "Comparison timeout"}
	}
	if state.plan == nil {
		state.plan = &buyplan.Plan{Success: false, Error: "Buy plan timeout", ProductID: ids[0]}
	}
	return state
}

// reviewAll fans out one review analysis per product, each under its own
// deadline, and keys the results by product ID.
func (o *Orchestrator) reviewAll(ctx context.Context, ids []int64) taskResult {
	type item struct {
		id       int64
		analysis *review.Analysis
	}
	items := make(chan item, len(ids))
	for _, id := range ids {
		go func(id int64) {
			cctx, cancel := context.WithTimeout(ctx, reviewTimeout)
			defer cancel()
			analysis, err := o.reviews.Analyze(cctx, id)
			if err != nil {
				fmt.Printf("[ORCHESTRATE] Review analysis for product %d %s: %v\n", id, TaskFailed, err)
				analysis = &review.Analysis{Success: false, ProductID: id, Message: timeoutOr(err, "Timeout")}
			}
			items <- item{id: id, analysis: analysis}
		}(id)
	}

	out := make(map[int64]*review.Analysis, len(ids))
	for range ids {
		it := <-items
		out[it.id] = it.analysis
	}
	return taskResult{name: taskReviews, reviews: out}
}

// priceAll fans out one price analysis per product, each under its own
// deadline, and keys the results by product ID.
func (o *Orchestrator) priceAll(ctx context.Context, ids []int64) taskResult {
	type item struct {
		id       int64
		analysis *price.Analysis
	}
	items := make(chan item, len(ids))
	for _, id := range ids {
		go func(id int64) {
			cctx, cancel := context.WithTimeout(ctx, priceTimeout)
			defer cancel()
			analysis, err := o.prices.Analyze(cctx, id)
			if err != nil {
				fmt.Printf("[ORCHESTRATE] Price analysis for product %d %s: %v\n", id, TaskFailed, err)
				analysis = &price.Analysis{Success: false, ProductID: id}
			}
			items <- item{id: id, analysis: analysis}
		}(id)
	}

	out := make(map[int64]*price.Analysis, len(ids))
	for range ids {
		it := <-items
		out[it.id] = it.analysis
	}
	return taskResult{name: taskPrices, prices: out}
}

func (o *Orchestrator) compareTask(ctx context.Context, ids []int64) taskResult {
	cctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()
	result, err := o.comparator.Compare(cctx, ids, compare.DefaultStyle)
	if err != nil {
		fmt.Printf("[ORCHESTRATE] Comparison %s: %v\n", TaskFailed, err)
		result = &compare.Result{Success: false, Error: timeoutOr(err, "Comparison timeout")}
	}
	return taskResult{name: taskComparison, comparison: result}
}

func (o *Orchestrator) planTask(ctx context.Context, productID int64, preference string) taskResult {
	cctx, cancel := context.WithTimeout(ctx, buyplanTimeout)
	defer cancel()
	plan, err := o.planner.CreatePlan(cctx, productID, preference)
	if err != nil {
		fmt.Printf("[ORCHESTRATE] Buy plan for product %d %s: %v\n", productID, TaskFailed, err)
		plan = &buyplan.Plan{Success: false, Error: timeoutOr(err, "Buy plan timeout"), ProductID: productID}
	}
	return taskResult{name: taskBuyPlan, plan: plan}
}

// timeoutOr maps deadline errors to a stable label and passes everything
// else through verbatim.
func timeoutOr(err error, label string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return label
	}
	return err.Error()
}
