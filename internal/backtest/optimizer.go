package backtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Arbuzovtd/Backtester/internal/features"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// GridValue is one candidate value for a swept parameter. Unset is
// only meaningful for max_sigma, where it removes the upper deviation
// bound; it is written as null in grid files.
type GridValue struct {
	Value float64
	Unset bool
}

// Val wraps a concrete parameter value.
func Val(v float64) GridValue { return GridValue{Value: v} }

// Unbounded is the grid value that clears max_sigma.
func Unbounded() GridValue { return GridValue{Unset: true} }

func (v GridValue) String() string {
	if v.Unset {
		return "null"
	}
	return fmt.Sprintf("%g", v.Value)
}

// MarshalJSON writes the value as a JSON number, or null when unset.
func (v GridValue) MarshalJSON() ([]byte, error) {
	if v.Unset {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

// UnmarshalJSON accepts a JSON number or null.
func (v *GridValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = GridValue{Unset: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = GridValue{Value: f}
	return nil
}

// GridParam is one swept parameter and its ordered candidate values.
type GridParam struct {
	Name   string
	Values []GridValue
}

// Grid is an ordered set of parameter value lists. Its Cartesian
// product is enumerated in row-major order with the last parameter
// varying fastest, so declaration order fixes both the combination
// numbering and the tie-break order of the final ranking.
type Grid struct {
	params []GridParam
}

// NewGrid returns an empty grid.
func NewGrid() *Grid { return &Grid{} }

// Add appends one parameter axis and returns the grid for chaining.
func (g *Grid) Add(name string, values ...GridValue) *Grid {
	g.params = append(g.params, GridParam{Name: name, Values: values})
	return g
}

// AddFloats appends one parameter axis of plain values.
func (g *Grid) AddFloats(name string, values ...float64) *Grid {
	gvs := make([]GridValue, len(values))
	for i, v := range values {
		gvs[i] = Val(v)
	}
	return g.Add(name, gvs...)
}

// Params returns the axes in declaration order.
func (g *Grid) Params() []GridParam { return g.params }

// Size returns the number of combinations in the Cartesian product.
// A grid with no axes has exactly one (empty) combination; an axis
// with no values collapses the product to zero.
func (g *Grid) Size() int {
	size := 1
	for _, p := range g.params {
		size *= len(p.Values)
	}
	return size
}

// combination expands one product index into its assignments, walking
// the axes from the last (fastest varying) to the first.
func (g *Grid) combination(index int) []Assignment {
	out := make([]Assignment, len(g.params))
	rem := index
	for i := len(g.params) - 1; i >= 0; i-- {
		p := g.params[i]
		n := len(p.Values)
		out[i] = Assignment{Name: p.Name, Value: p.Values[rem%n]}
		rem /= n
	}
	return out
}

// MarshalJSON writes the grid as an object in axis order.
func (g *Grid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range g.params {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		vals, err := json.Marshal(p.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a grid object, preserving the document order of
// its keys. encoding/json's map decoding would scramble the axes, so
// the object is walked token by token instead.
func (g *Grid) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to parse grid: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grid must be a JSON object of parameter value lists")
	}

	seen := make(map[string]bool)
	var params []GridParam
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to parse grid: %w", err)
		}
		name := keyTok.(string)
		if seen[name] {
			return fmt.Errorf("duplicate grid parameter %q", name)
		}
		seen[name] = true

		var values []GridValue
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("invalid value list for grid parameter %q: %w", name, err)
		}
		params = append(params, GridParam{Name: name, Values: values})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to parse grid: %w", err)
	}

	g.params = params
	return nil
}

// Assignment binds one grid parameter to a concrete value.
type Assignment struct {
	Name  string
	Value GridValue
}

// Row is one optimizer result: the combination's assignments together
// with its summary, or the error that kept it from producing one.
type Row struct {
	Index   int
	Params  []Assignment
	Config  *config.StrategyConfig
	Summary types.Summary
	Err     string
}

// Failed reports whether the combination was isolated as a failure.
func (r Row) Failed() bool { return r.Err != "" }

// Optimizer sweeps a parameter grid over one bar series, running every
// combination through a fresh engine and ranking the outcomes.
type Optimizer struct {
	workers  int
	onResult func(row Row, completed, total int)
}

// NewOptimizer creates an optimizer that evaluates combinations on the
// given number of parallel workers.
func NewOptimizer(workers int) *Optimizer {
	if workers < 1 {
		workers = 1
	}
	return &Optimizer{workers: workers}
}

// OnResult registers a callback invoked from the collecting goroutine
// after each combination finishes, in completion order.
func (o *Optimizer) OnResult(fn func(row Row, completed, total int)) {
	o.onResult = fn
}

// Optimize evaluates every combination of the grid against the bar
// series, which must already carry features derived with the base
// configuration's vol_lookback. Combinations that fail to apply or
// validate are kept as failure rows rather than aborting the sweep.
//
// Rows are returned with successes first, ordered by net profit
// descending, ties and failures falling back to combination order.
// On cancellation the rows collected so far are returned along with
// the context's error.
func (o *Optimizer) Optimize(ctx context.Context, bars []types.Bar, base *config.StrategyConfig, grid *Grid) ([]Row, error) {
	total := grid.Size()
	rows := make([]Row, 0, total)
	if total == 0 {
		return rows, nil
	}

	pool := newSweepPool(o.workers, o.workers*2, func(job SweepJob) Row {
		return o.evaluate(bars, base, job)
	})
	pool.start(ctx)

	go func() {
		defer pool.stop()
		for i := 0; i < total; i++ {
			if err := pool.submit(ctx, SweepJob{Index: i, Assignments: grid.combination(i)}); err != nil {
				return
			}
		}
	}()

	for row := range pool.results() {
		rows = append(rows, row)
		if o.onResult != nil {
			o.onResult(row, len(rows), total)
		}
	}

	sortRows(rows)
	return rows, ctx.Err()
}

// evaluate runs one combination: derive its configuration, rebuild the
// volume features if the lookback changed, and backtest.
func (o *Optimizer) evaluate(bars []types.Bar, base *config.StrategyConfig, job SweepJob) Row {
	row := Row{Index: job.Index, Params: job.Assignments}

	cfg := base.Clone()
	for _, a := range job.Assignments {
		var v *float64
		if !a.Value.Unset {
			val := a.Value.Value
			v = &val
		}
		if err := cfg.ApplyParam(a.Name, v); err != nil {
			row.Err = err.Error()
			return row
		}
	}
	if err := cfg.Validate(); err != nil {
		row.Err = err.Error()
		return row
	}
	row.Config = cfg

	series := bars
	if cfg.VolLookback != base.VolLookback {
		series = features.Derive(bars, cfg.VolLookback)
	}

	trades := NewEngine(cfg).Run(series)
	row.Summary = Summarize(trades)
	return row
}

// sortRows orders successes by net profit descending, with ties broken
// by combination order; failure rows sort after every success, also in
// combination order.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Failed() != b.Failed() {
			return !a.Failed()
		}
		if a.Failed() {
			return a.Index < b.Index
		}
		if a.Summary.Net != b.Summary.Net {
			return a.Summary.Net > b.Summary.Net
		}
		return a.Index < b.Index
	})
}

// DefaultGridForAsset returns the stock optimization grid for the
// asset: wide take-profit and stop sweeps for BTC's price scale,
// tighter ones plus trail_trigger for ETH.
func DefaultGridForAsset(asset string) *Grid {
	if asset == "BTC" {
		return NewGrid().
			AddFloats("entry_sigma", 1.9, 2.0, 2.1).
			AddFloats("max_sigma", 2.5, 2.7, 2.9).
			AddFloats("tp", 4000, 5000, 6000).
			AddFloats("sl", 2500, 3000, 3500)
	}
	return NewGrid().
		AddFloats("entry_sigma", 1.9, 2.0, 2.1, 2.2).
		AddFloats("tp", 150, 175, 200, 225, 250).
		AddFloats("sl", 50, 75, 100).
		AddFloats("trail_trigger", 100, 120, 140)
}
