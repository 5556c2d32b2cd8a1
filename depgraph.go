package cellstyle

import (
	"github.com/sirupsen/logrus"
)

// Dependents tracks which formula cells read which positions and keeps the
// recalculation queue. Cells call it while they change:
//   - Link when a cell with a formula (or an array member) is installed
//   - Unlink before that formula is replaced, moved or removed
//   - Changed after the content of a cell changed
//   - QueueRecalc to put a cell at the head of the recalculation queue
type Dependents interface {
	Link(c *Cell)
	Unlink(c *Cell)
	Changed(c *Cell, queueRecalc bool)
	QueueRecalc(c *Cell)
}

// DepGraph is the default Dependents: a reverse index from position to the
// cells that read it, and a queue whose head is evaluated first.
type DepGraph struct {
	readers map[CellPos]map[*Cell]struct{}
	reads   map[*Cell][]CellPos
	queue   []*Cell
	log     logrus.FieldLogger
}

// NewDepGraph creates an empty graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		readers: make(map[CellPos]map[*Cell]struct{}),
		reads:   make(map[*Cell][]CellPos),
		log:     logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger.
func (g *DepGraph) SetLogger(l logrus.FieldLogger) { g.log = l }

// sources lists the positions c reads: the references of its formula, or
// the corner for an array member.
func sources(c *Cell) []CellPos {
	if c.expr != nil {
		var out []CellPos
		for _, r := range c.expr.Refs() {
			r.Each(func(p CellPos) { out = append(out, p) })
		}
		return out
	}
	if c.array != nil {
		return []CellPos{c.pos.Offset(-c.array.x, -c.array.y)}
	}
	return nil
}

// Link implements Dependents.
func (g *DepGraph) Link(c *Cell) {
	if _, ok := g.reads[c]; ok {
		return
	}
	src := sources(c)
	g.reads[c] = src
	for _, p := range src {
		set := g.readers[p]
		if set == nil {
			set = make(map[*Cell]struct{})
			g.readers[p] = set
		}
		set[c] = struct{}{}
	}
}

// Unlink implements Dependents. The cell also leaves the queue.
func (g *DepGraph) Unlink(c *Cell) {
	for _, p := range g.reads[c] {
		if set := g.readers[p]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(g.readers, p)
			}
		}
	}
	delete(g.reads, c)
	g.dequeue(c)
}

// IsLinked reports whether c is registered.
func (g *DepGraph) IsLinked(c *Cell) bool {
	_, ok := g.reads[c]
	return ok
}

// Readers returns the cells that read pos.
func (g *DepGraph) Readers(pos CellPos) []*Cell {
	out := make([]*Cell, 0, len(g.readers[pos]))
	for c := range g.readers[pos] {
		out = append(out, c)
	}
	return out
}

// QueueRecalc implements Dependents: c moves to the head of the queue.
func (g *DepGraph) QueueRecalc(c *Cell) {
	g.dequeue(c)
	c.pending = true
	g.queue = append([]*Cell{c}, g.queue...)
}

func (g *DepGraph) dequeue(c *Cell) {
	for i, q := range g.queue {
		if q == c {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			return
		}
	}
}

// Changed implements Dependents. With queueRecalc, every cell that reads
// c's position, directly or through other formulas, is queued.
func (g *DepGraph) Changed(c *Cell, queueRecalc bool) {
	if !queueRecalc {
		return
	}
	seen := map[*Cell]bool{c: true}
	work := []CellPos{c.pos}
	for len(work) > 0 {
		p := work[0]
		work = work[1:]
		for r := range g.readers[p] {
			if seen[r] {
				continue
			}
			seen[r] = true
			g.QueueRecalc(r)
			work = append(work, r.pos)
		}
	}
}

// Queue returns the recalculation queue, head first.
func (g *DepGraph) Queue() []*Cell {
	return append([]*Cell(nil), g.queue...)
}

// Recalc evaluates the queue from the head. Cells evaluated earlier as an
// input of another cell are skipped.
func (g *DepGraph) Recalc() int {
	n := 0
	for len(g.queue) > 0 {
		c := g.queue[0]
		g.queue = g.queue[1:]
		if !c.pending {
			continue
		}
		c.Eval()
		n++
	}
	if n > 0 {
		g.log.WithField("cells", n).Debug("recalculated")
	}
	return n
}
