package mcts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
)

const graphName = "G"

// ToDot renders the live nodes of the tree as a Graphviz digraph. Each edge is labelled with its move, and the
// most visited child of every node is drawn in bold.
func (t *MCTS) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.IsActive() {
			continue
		}
		if err := g.AddNode(graphName, dotID(n.id), map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    dotLabel(n),
		}); err != nil {
			panic(err)
		}
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.IsActive() {
			continue
		}
		best, bestVisits := nilNode, uint32(0)
		for _, kid := range n.kids {
			if kid.isValid() && t.nodes[kid].visits > bestVisits {
				best, bestVisits = kid, t.nodes[kid].visits
			}
		}
		for j, kid := range n.kids {
			if !kid.isValid() {
				continue
			}
			attrs := map[string]string{"label": strconv.Quote(n.moves[j].Coord.String())}
			if kid == best {
				attrs["style"] = "bold"
			}
			if err := g.AddEdge(dotID(n.id), dotID(kid), true, attrs); err != nil {
				panic(err)
			}
		}
	}
	return g.String()
}

func dotID(n naughty) string { return strconv.Itoa(int(n)) }

// dotLabel is an HTML-like Graphviz label tabulating the node.
func dotLabel(n *Node) string {
	move := "root"
	if m, ok := n.Move(); ok {
		move = fmt.Sprintf("%v", m)
	}
	board := strings.Replace(strings.TrimRight(fmt.Sprintf("%v", &n.state), "\n"), "\n", "<BR />", -1)

	var b strings.Builder
	b.WriteString(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">`)
	row := func(k string, v interface{}) { fmt.Fprintf(&b, "<TR><TD>%s</TD><TD>%v</TD></TR>", k, v) }
	row("Node", n.id)
	row("Move", move)
	row("To Move", n.state.ToMove())
	row("Visits", n.visits)
	row("Wins", n.wins)
	row("Draws", n.draws)
	row("Win Rate", fmt.Sprintf("%.3f", n.WinRate()))
	row("State", board)
	b.WriteString(`</TABLE>>`)
	return b.String()
}
