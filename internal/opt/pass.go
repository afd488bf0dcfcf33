package opt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"vnopt/internal/ir"
)

// ErrIterationLimit is returned when a fixed-point loop fails to settle.
var ErrIterationLimit = errors.New("iteration limit reached")

const DefaultMaxIterations = 1000

// DefaultPasses is the pipeline order used when no passes are named.
var DefaultPasses = []string{"constfold", "cse", "die"}

// Pass is a single function-level transformation.
type Pass interface {
	Name() string
	Description() string
	// Apply transforms fn in place and reports whether anything changed.
	Apply(fn *ir.Function) (bool, error)
}

// EventKind tells listeners what happened to an instruction.
type EventKind int

const (
	EventRemoved EventKind = iota
	EventReplaced
	EventFolded
)

func (k EventKind) String() string {
	switch k {
	case EventRemoved:
		return "removed"
	case EventReplaced:
		return "replaced"
	case EventFolded:
		return "folded"
	}
	return "unknown"
}

// Event describes one change made by a pass. Text is the instruction as it
// read before the change; Replacement is the operand form of the value that
// took over its uses.
type Event struct {
	Kind        EventKind
	Pass        string
	Function    string
	Text        string
	Pos         ir.Position
	Replacement string
}

// Options tune every pass built by NewPipeline.
type Options struct {
	// MaxIterations bounds each fixed-point loop. Zero means DefaultMaxIterations.
	MaxIterations int
	// VerifyEachPass runs ir.Verify after every pass on every function.
	VerifyEachPass bool

	OnRemove  func(Event)
	OnReplace func(Event)
}

func (o *Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

func (o *Options) notify(ev Event) {
	switch ev.Kind {
	case EventRemoved:
		if o.OnRemove != nil {
			o.OnRemove(ev)
		}
	case EventReplaced, EventFolded:
		if o.OnReplace != nil {
			o.OnReplace(ev)
		}
	}
}

func (o *Options) listening() bool {
	return o.OnRemove != nil || o.OnReplace != nil
}

// Pipeline manages the sequence of passes run over a module.
type Pipeline struct {
	passes  []Pass
	options *Options
	stats   *Stats
	log     commonlog.Logger
}

// NewPipeline builds the named passes in order; with no names it uses
// DefaultPasses.
func NewPipeline(options Options, names ...string) (*Pipeline, error) {
	if len(names) == 0 {
		names = DefaultPasses
	}

	p := &Pipeline{
		options: &options,
		stats:   &Stats{},
		log:     commonlog.GetLogger("vnopt.pipeline"),
	}
	for _, name := range names {
		pass, err := p.newPass(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		p.AddPass(pass)
	}
	return p, nil
}

func (p *Pipeline) newPass(name string) (Pass, error) {
	switch name {
	case "die":
		return NewDeadInstructionElimination(p.options, p.stats), nil
	case "cse":
		return NewCommonSubexpressionElimination(p.options, p.stats), nil
	case "constfold":
		return NewConstantFolding(p.options, p.stats), nil
	}
	return nil, fmt.Errorf("unknown pass %q (available: %s)", name, strings.Join(PassNames(), ", "))
}

// PassNames lists the passes NewPipeline accepts.
func PassNames() []string {
	return []string{"constfold", "cse", "die"}
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

func (p *Pipeline) Passes() []Pass { return p.passes }

// Stats returns the counters accumulated by every run so far.
func (p *Pipeline) Stats() Stats { return *p.stats }

// Run applies every pass to every function of the module.
func (p *Pipeline) Run(m *ir.Module) (bool, error) {
	changed := false
	for _, pass := range p.passes {
		start := time.Now()
		passChanged := false
		for _, fn := range m.Functions {
			c, err := p.apply(pass, fn)
			if err != nil {
				return changed, err
			}
			passChanged = passChanged || c
		}
		if passChanged {
			p.log.Infof("%s: applied changes in %v", pass.Name(), time.Since(start))
		} else {
			p.log.Infof("%s: no changes needed", pass.Name())
		}
		changed = changed || passChanged
	}
	return changed, nil
}

// RunFunction applies every pass to a single function.
func (p *Pipeline) RunFunction(fn *ir.Function) (bool, error) {
	changed := false
	for _, pass := range p.passes {
		c, err := p.apply(pass, fn)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (p *Pipeline) apply(pass Pass, fn *ir.Function) (bool, error) {
	p.log.Debugf("running %s on @%s", pass.Name(), fn.Name)
	changed, err := pass.Apply(fn)
	if err != nil {
		return changed, fmt.Errorf("%s on @%s: %w", pass.Name(), fn.Name, err)
	}
	if p.options.VerifyEachPass {
		if err := ir.Verify(fn); err != nil {
			return changed, fmt.Errorf("verification failed after %s on @%s: %w", pass.Name(), fn.Name, err)
		}
	}
	return changed, nil
}
