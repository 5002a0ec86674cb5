package fsm

import (
	"fmt"
	"strconv"
	"strings"
)

// DOT renders f as a Graphviz digraph: states are nodes labeled "s/out"
// (Moore/DFSM) or "s", transitions are edges labeled "in/out" or "in".
// Adapted from the teacher's fsmfile.GenerateDOT, generalized from
// string-named states to index-based ones.
func (f *FSM) DOT(title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if title != "" {
		fmt.Fprintf(&sb, "    labelloc=\"t\";\n    label=\"%s\";\n\n", escapeDOT(title))
	}

	sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
	sb.WriteString("    __start -> \"0\";\n\n")

	for s := 0; s < f.n; s++ {
		if f.removed(s) {
			continue
		}
		label := strconv.Itoa(s)
		if f.caps.stateOut {
			label = fmt.Sprintf("%d/%d", s, f.stateOut[s])
		}
		shape := "circle"
		if f.Type == TypeDFA && f.stateOut[s] == 1 {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "    \"%d\" [shape=%s, label=\"%s\"];\n", s, shape, escapeDOT(label))
	}
	sb.WriteString("\n")

	type edgeKey struct{ from, to int }
	edgeLabels := map[edgeKey][]string{}
	var order []edgeKey
	for s := 0; s < f.n; s++ {
		if f.removed(s) {
			continue
		}
		for i := 0; i < f.p; i++ {
			t := f.trans[s][i]
			if t == NullState {
				continue
			}
			label := strconv.Itoa(i)
			if f.caps.transOut {
				label = fmt.Sprintf("%d/%d", i, f.transOut[s][i])
			}
			key := edgeKey{s, int(t)}
			if _, ok := edgeLabels[key]; !ok {
				order = append(order, key)
			}
			edgeLabels[key] = append(edgeLabels[key], label)
		}
	}
	for _, key := range order {
		combined := strings.Join(edgeLabels[key], ", ")
		fmt.Fprintf(&sb, "    \"%d\" -> \"%d\" [label=\"%s\"];\n", key.from, key.to, escapeDOT(combined))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
