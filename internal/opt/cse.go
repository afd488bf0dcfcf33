package opt

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/oleiade/lane"
	"github.com/tliron/commonlog"
	"vnopt/internal/ir"
)

// LeaderTable maps a value number to the live value that represents it.
type LeaderTable struct {
	leaders map[uint32]ir.Value
}

func NewLeaderTable() *LeaderTable {
	return &LeaderTable{leaders: make(map[uint32]ir.Value)}
}

func (lt *LeaderTable) Set(n uint32, v ir.Value) { lt.leaders[n] = v }

// Find returns the leader of n, or nil.
func (lt *LeaderTable) Find(n uint32) ir.Value { return lt.leaders[n] }

// Remove drops v wherever it leads.
func (lt *LeaderTable) Remove(v ir.Value) {
	for n, leader := range lt.leaders {
		if leader == v {
			delete(lt.leaders, n)
		}
	}
}

func (lt *LeaderTable) Clear() { clear(lt.leaders) }

func (lt *LeaderTable) Len() int { return len(lt.leaders) }

func (lt *LeaderTable) Dump() string {
	refs := make(map[uint32]string, len(lt.leaders))
	for n, v := range lt.leaders {
		refs[n] = v.Ref()
	}
	config := spew.ConfigState{Indent: "  ", SortKeys: true}
	return config.Sdump(refs)
}

// CommonSubexpressionElimination is local value numbering: within each
// block, an instruction computing the same expression as an earlier one
// has its uses moved to the earlier one and is removed.
type CommonSubexpressionElimination struct {
	options *Options
	stats   *Stats
	log     commonlog.Logger

	fn         *ir.Function
	values     *ValueTable
	leaders    *LeaderTable
	eliminator *Eliminator
}

func NewCommonSubexpressionElimination(options *Options, stats *Stats) *CommonSubexpressionElimination {
	return &CommonSubexpressionElimination{
		options: options,
		stats:   stats,
		log:     commonlog.GetLogger("vnopt.cse"),
		values:  NewValueTable(),
		leaders: NewLeaderTable(),
	}
}

func (c *CommonSubexpressionElimination) Name() string { return "cse" }

func (c *CommonSubexpressionElimination) Description() string {
	return "Replaces recomputations within a block with their first occurrence"
}

func (c *CommonSubexpressionElimination) Apply(fn *ir.Function) (bool, error) {
	c.fn = fn
	c.eliminator = NewEliminator(fn, c.Name(), c.options, c.stats)
	c.eliminator.OnErase = func(inst *ir.Instruction) {
		c.values.Erase(inst)
		c.leaders.Remove(inst)
	}
	defer func() {
		c.fn = nil
		c.eliminator = nil
	}()

	changed := false
	for iteration := 0; ; iteration++ {
		if iteration >= c.options.maxIterations() {
			return changed, fmt.Errorf("function did not settle after %d rounds: %w", iteration, ErrIterationLimit)
		}

		roundChanged := false
		pending := lane.NewQueue()
		for _, block := range fn.Blocks() {
			pending.Enqueue(block)
		}
		for !pending.Empty() {
			block := pending.Dequeue().(*ir.BasicBlock)
			blockChanged, err := c.runOnBlock(block)
			if err != nil {
				return changed, err
			}
			roundChanged = roundChanged || blockChanged
		}
		if !roundChanged {
			return changed, nil
		}
		changed = true
	}
}

// runOnBlock rescans block until a scan changes nothing.
func (c *CommonSubexpressionElimination) runOnBlock(block *ir.BasicBlock) (bool, error) {
	changed := false
	for iteration := 0; ; iteration++ {
		if iteration >= c.options.maxIterations() {
			return changed, fmt.Errorf("block %s did not settle after %d scans: %w", block.Label, iteration, ErrIterationLimit)
		}
		if !c.processBlock(block) {
			return changed, nil
		}
		changed = true
	}
}

func (c *CommonSubexpressionElimination) processBlock(block *ir.BasicBlock) bool {
	c.values.Clear()
	c.leaders.Clear()

	changed := false
	for _, inst := range block.Instructions() {
		if inst.IsErased() {
			continue
		}
		if c.processInstruction(inst) {
			changed = true
		}
	}

	if c.log.AllowLevel(commonlog.Debug) {
		c.log.Debugf("value table for %s:\n%s", block.Label, c.values.Dump())
		c.log.Debugf("leaders for %s:\n%s", block.Label, c.leaders.Dump())
	}
	return changed
}

func (c *CommonSubexpressionElimination) processInstruction(inst *ir.Instruction) bool {
	if inst.Op == ir.OpLoad {
		// An unused read can go regardless of aliasing; loads with uses are
		// never merged.
		if inst.IsSimpleLoad() && !inst.HasUses() {
			c.eliminator.Push(inst)
			return c.eliminator.Run()
		}
		c.leaders.Set(c.values.LookupOrAdd(inst), inst)
		return false
	}

	if ir.IsVoid(inst.Type()) {
		return false
	}

	next := c.values.NextValueNumber()
	n := c.values.LookupOrAdd(inst)
	if inst.Op == ir.OpAlloca || inst.IsTerminator() || inst.IsPhi() {
		c.leaders.Set(n, inst)
		return false
	}
	if n >= next {
		c.leaders.Set(n, inst)
		return false
	}

	leader := c.leaders.Find(n)
	if leader == nil || leader == ir.Value(inst) {
		c.leaders.Set(n, inst)
		return false
	}

	c.replace(inst, leader)
	return true
}

// replace moves every use of inst to leader and deletes inst along with
// any operand left unused.
func (c *CommonSubexpressionElimination) replace(inst *ir.Instruction, leader ir.Value) {
	ev := Event{Kind: EventReplaced, Pass: c.Name(), Function: c.fn.Name, Pos: inst.Pos, Replacement: leader.Ref()}
	if c.options.listening() || c.log.AllowLevel(commonlog.Debug) {
		ev.Text = inst.String()
		c.log.Debugf("replacing %s with %s", ev.Text, ev.Replacement)
	}

	if inst.HasUses() {
		ir.ReplaceAllUsesWith(inst, leader)
	}
	c.values.Erase(inst)
	c.stats.Replaced++
	c.options.notify(ev)

	c.eliminator.Push(inst)
	c.eliminator.Run()
}
