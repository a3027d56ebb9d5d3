// Package pipeline runs the load → layout → render pipeline for blockweek.
//
// The CLI, the HTTP server and the TUI all go through this package so a
// schedule is laid out and rendered the same way everywhere.
//
// # Stages
//
//  1. Load: read a schedule file into a [block.Week] (pkg/io).
//  2. Layout: lay out every day with a configured [engine.Engine].
//  3. Render: produce artifacts in the requested formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	week, err := io.ImportSchedule("fall.toml")
//	result, err := runner.Execute(ctx, week, pipeline.Options{
//	    Strategy: "exact",
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/columns"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/widthopt"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultStrategy is the column assignment strategy.
	DefaultStrategy = columns.DefaultStrategy

	// DefaultSolver is the width solver.
	DefaultSolver = "simplex"

	// DefaultExactTimeout bounds the exact colorer per day.
	DefaultExactTimeout = 2 * time.Second

	// DefaultSolveTimeout bounds each width solve. A component that runs
	// out of time keeps its initial layout.
	DefaultSolveTimeout = 5 * time.Second

	// DefaultWidth is the default SVG canvas width in pixels.
	DefaultWidth = 1000.0

	// DefaultHeight is the default SVG canvas height in pixels.
	DefaultHeight = 720.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatText: true,
}

// ValidStrategies is the set of column strategies.
var ValidStrategies = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range columns.Strategies() {
		m[s] = true
	}
	return m
}()

// ValidSolvers is the set of width solvers.
var ValidSolvers = map[string]bool{
	"simplex": true,
	"none":    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It decodes from
// JSON request bodies and TOML config files.
type Options struct {
	// Layout options
	Strategy     string        `json:"strategy,omitempty" toml:"strategy"`
	Solver       string        `json:"solver,omitempty" toml:"solver"`
	ExactTimeout time.Duration `json:"exact_timeout,omitempty" toml:"exact_timeout"`
	SolveTimeout time.Duration `json:"solve_timeout,omitempty" toml:"solve_timeout"`
	Concurrency  int           `json:"concurrency,omitempty" toml:"concurrency"`
	Days         []string      `json:"days,omitempty" toml:"days"`
	NoCache      bool          `json:"no_cache,omitempty" toml:"no_cache"`

	// Render options
	Formats   []string `json:"formats,omitempty" toml:"formats"`
	Width     float64  `json:"width,omitempty" toml:"width"`
	Height    float64  `json:"height,omitempty" toml:"height"`
	StartHour int      `json:"start_hour,omitempty" toml:"start_hour"`
	EndHour   int      `json:"end_hour,omitempty" toml:"end_hour"`
	Title     string   `json:"title,omitempty" toml:"title"`
	Detailed  bool     `json:"detailed,omitempty" toml:"detailed"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Week is the laid-out week.
	Week block.Week

	// Days holds per-day layout statistics.
	Days map[block.Day]*DayStats

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// DayStats is the engine report for one day.
type DayStats struct {
	PassID     string `json:"pass_id"`
	Blocks     int    `json:"blocks"`
	Columns    int    `json:"columns"`
	MaxOverlap int    `json:"max_overlap"`
	Fixed      int    `json:"fixed"`
	Components int    `json:"components"`
	Solved     int    `json:"solved"`
	Cached     int    `json:"cached"`
	Fallbacks  int    `json:"fallbacks"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Blocks     int
	Days       int
	Fallbacks  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return bwerrors.New(bwerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, keys(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrategy checks that a column strategy is valid.
func ValidateStrategy(strategy string) error {
	if !ValidStrategies[strategy] {
		return bwerrors.New(bwerrors.ErrCodeInvalidStrategy, "invalid strategy: %q (must be one of: %s)", strategy, keys(ValidStrategies))
	}
	return nil
}

// ValidateSolver checks that a solver name is valid.
func ValidateSolver(solver string) error {
	if !ValidSolvers[solver] {
		return bwerrors.New(bwerrors.ErrCodeInvalidStrategy, "invalid solver: %q (must be one of: %s)", solver, keys(ValidSolvers))
	}
	return nil
}

func keys(m map[string]bool) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Solver == "" {
		o.Solver = DefaultSolver
	}
	if o.ExactTimeout == 0 {
		o.ExactTimeout = DefaultExactTimeout
	}
	if o.SolveTimeout == 0 {
		o.SolveTimeout = DefaultSolveTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if err := ValidateSolver(o.Solver); err != nil {
		return err
	}
	_, err := o.DayList()
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.StartHour < 0 || o.EndHour > 24 || (o.EndHour != 0 && o.StartHour >= o.EndHour) {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "invalid hour range %d-%d", o.StartHour, o.EndHour)
	}
	return nil
}

// ValidateAndSetDefaults validates and defaults everything for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// DayList resolves Days, defaulting to Monday through Friday.
func (o *Options) DayList() ([]block.Day, error) {
	if len(o.Days) == 0 {
		return block.Weekdays, nil
	}
	days := make([]block.Day, 0, len(o.Days))
	for _, s := range o.Days {
		d, err := block.ParseDay(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// Assigner returns the configured column strategy.
func (o *Options) Assigner() (columns.Assigner, error) {
	a, err := columns.ByName(o.Strategy)
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidStrategy, err, "strategy")
	}
	if _, ok := a.(columns.Exact); ok {
		a = columns.Exact{Timeout: o.ExactTimeout}
	}
	return a, nil
}

// WidthSolver returns the configured width solver.
func (o *Options) WidthSolver() (widthopt.Solver, error) {
	s, err := widthopt.SolverByName(o.Solver)
	if err != nil {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidStrategy, err, "solver")
	}
	return s, nil
}

// LoadOptionsFile reads options from a TOML config file.
func LoadOptionsFile(path string) (Options, error) {
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, bwerrors.New(bwerrors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return o, nil
}

// Merge returns o with every zero field filled from base. Flags override a
// config file this way.
func (o Options) Merge(base Options) Options {
	if o.Strategy == "" {
		o.Strategy = base.Strategy
	}
	if o.Solver == "" {
		o.Solver = base.Solver
	}
	if o.ExactTimeout == 0 {
		o.ExactTimeout = base.ExactTimeout
	}
	if o.SolveTimeout == 0 {
		o.SolveTimeout = base.SolveTimeout
	}
	if o.Concurrency == 0 {
		o.Concurrency = base.Concurrency
	}
	if len(o.Days) == 0 {
		o.Days = base.Days
	}
	o.NoCache = o.NoCache || base.NoCache
	if len(o.Formats) == 0 {
		o.Formats = base.Formats
	}
	if o.Width == 0 {
		o.Width = base.Width
	}
	if o.Height == 0 {
		o.Height = base.Height
	}
	if o.StartHour == 0 && o.EndHour == 0 {
		o.StartHour, o.EndHour = base.StartHour, base.EndHour
	}
	if o.Title == "" {
		o.Title = base.Title
	}
	o.Detailed = o.Detailed || base.Detailed
	if o.Logger == nil {
		o.Logger = base.Logger
	}
	return o
}

// String summarizes the layout configuration for logs.
func (o *Options) String() string {
	return fmt.Sprintf("strategy=%s solver=%s formats=%s", o.Strategy, o.Solver, strings.Join(o.Formats, ","))
}
