package dot

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Render lays out the dot source with the embedded graphviz library and writes
// the image in the given format (svg, png, jpg, ...) to w.
func Render(src []byte, format string, w io.Writer) error {
	g := graphviz.New()
	defer g.Close()

	graph, err := graphviz.ParseBytes(src)
	if err != nil {
		return err
	}
	defer graph.Close()

	return g.Render(graph, graphviz.Format(format), w)
}

// DotToImage writes the dot source next to the rendered image and returns the
// image path. An empty file name exports to the temporary directory.
func DotToImage(outfname string, format string, src []byte) (string, error) {
	base := outfname
	if base == "" {
		base = filepath.Join(os.TempDir(), "lyra_export")
	}

	if err := os.WriteFile(base+".dot", src, 0644); err != nil {
		return "", err
	}

	img := base + "." + format
	f, err := os.Create(img)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Render(src, format, f); err != nil {
		return "", err
	}
	return img, nil
}

var tmpl = template.Must(template.New("dot").Option("missingkey=zero").Parse(`
{{- define "node"}}{{printf "%q [ %s ]" .ID .Attrs}}{{end -}}
{{- define "edge"}}{{printf "%q -> %q [ %s ]" .From.ID .To.ID .Attrs}}{{end -}}
digraph Lyra {
	label={{printf "%q" .Title}};
	labeljust="l";
	fontname="Arial";
	fontsize="14";
	rankdir="{{or .Options.rankdir "LR"}}";
	bgcolor="lightgray";
	pad="0.0";
	nodesep="{{or .Options.nodesep "0.35"}}";

	node [shape="ellipse" style="filled" fillcolor="honeydew" fontname="Verdana" margin="0.05,0.0"];
	edge [minlen="{{or .Options.minlen "1"}}"];
{{range .Clusters}}
	subgraph {{printf "%q" .}} {
		{{.Attrs}}
		{{- range .Nodes}}
		{{template "node" .}}
		{{- end}}
	}
{{end}}
{{- range .Nodes}}
	{{template "node" .}}
{{- end}}
{{range .Edges}}
	{{template "edge" .}}
{{- end}}
}
`))

// DotCluster groups nodes in a boxed subgraph.
type DotCluster struct {
	ID    string
	Nodes []*DotNode
	Attrs DotAttrs
}

func NewDotCluster(id string) *DotCluster {
	return &DotCluster{ID: id, Attrs: make(DotAttrs)}
}

// Graphviz only draws subgraphs whose name starts with "cluster".
func (c *DotCluster) String() string {
	return "cluster_" + c.ID
}

type DotNode struct {
	ID    string
	Attrs DotAttrs
}

func (n *DotNode) String() string {
	return n.ID
}

type DotEdge struct {
	From  *DotNode
	To    *DotNode
	Attrs DotAttrs
}

type DotAttrs map[string]string

// List formats the attributes sorted by key.
func (p DotAttrs) List() []string {
	keys := maps.Keys(p)
	slices.Sort(keys)

	l := make([]string, 0, len(keys))
	for _, k := range keys {
		l = append(l, fmt.Sprintf("%s=%q;", k, p[k]))
	}
	return l
}

func (p DotAttrs) String() string {
	return strings.Join(p.List(), " ")
}

// DotGraph is a directed graph ready to be written in the dot language.
// Options may set the rankdir, nodesep and minlen layout parameters.
type DotGraph struct {
	Title    string
	Clusters []*DotCluster
	Nodes    []*DotNode
	Edges    []*DotEdge
	Options  map[string]string
}

// AllNodes lists the nodes of the graph, including those in clusters.
func (g *DotGraph) AllNodes() []*DotNode {
	res := slices.Clone(g.Nodes)
	for _, c := range g.Clusters {
		res = append(res, c.Nodes...)
	}
	return res
}

// Bytes returns the dot source of the graph.
func (g *DotGraph) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := g.WriteDot(&buf)
	return buf.Bytes(), err
}

func (g *DotGraph) WriteDot(w io.Writer) error {
	return tmpl.Execute(w, g)
}

// ShowDot opens the graph with xdot and waits for it to be closed.
func (g *DotGraph) ShowDot() error {
	xdot, err := exec.LookPath("xdot")
	if err != nil {
		return errors.Wrap(err, "xdot is required to show graphs")
	}

	f, err := os.CreateTemp("", "lyra.*.dot")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := g.WriteDot(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("Showing %s (%d nodes, %d edges)", f.Name(), len(g.AllNodes()), len(g.Edges))
	return exec.Command(xdot, f.Name()).Run()
}
