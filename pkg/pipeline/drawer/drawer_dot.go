package drawer

import (
	"fmt"
	"html"
	"io"
	"os"
	"sort"
	"strconv"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-model-chain/pkg/pipeline/measure"
)

// DOTDrawer renders the pipeline graph in the Graphviz DOT language.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	open  func() (io.WriteCloser, error)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewDOTDrawer creates a drawer writing to wrt.
func NewDOTDrawer(wrt io.Writer) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		return nopWriteCloser{wrt}, nil
	})
}

// NewFileDrawer creates a drawer writing to fileName. The file is created by Draw.
func NewFileDrawer(fileName string) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		file, err := os.Create(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create file %s", fileName)
		}

		return file, nil
	})
}

func newDOTDrawer(open func() (io.WriteCloser, error)) *DOTDrawer {
	return &DOTDrawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
		open:  open,
	}
}

// AddStage adds a stage to the pipeline graph.
func (d *DOTDrawer) AddStage(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children stages.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw writes the pipeline graph.
func (d *DOTDrawer) Draw() (err error) {
	wrt, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		closeErr := wrt.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "unable to close graph output")
		}
	}()

	err = dot(d.graph, wrt)
	if err != nil {
		return errors.Wrap(err, "unable to render dot graph")
	}

	return nil
}

// SetTotalTime labels a stage with a total duration.
func (d *DOTDrawer) SetTotalTime(stageName string, total time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(stageName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stageName)
	}

	properties.Attributes["xlabel"] = total.Round(time.Millisecond).String()

	return nil
}

const maxRGB = 240

// AddMeasure labels every measured stage with the time spent in it. The link into a stage gets the
// average duration of a call and a colour from blue (fastest stage) to red (slowest stage). Failed
// stages are outlined in red.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	durations := make(map[string]time.Duration)
	var minValue, maxValue time.Duration

	for _, name := range msr.Names() {
		mt := msr.GetMetric(name)
		if mt == nil || mt.Executions() == 0 {
			continue
		}
		avg := mt.AVGDuration()
		if len(durations) == 0 || avg < minValue {
			minValue = avg
		}
		if len(durations) == 0 || avg > maxValue {
			maxValue = avg
		}
		durations[name] = avg
	}

	predecessors, err := d.graph.PredecessorMap()
	if err != nil {
		return errors.Wrap(err, "unable to get predecessor map")
	}

	for name, avg := range durations {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get %s vertex properties", name)
		}
		properties.Attributes["xlabel"] = msr.GetMetric(name).TotalDuration().String()
		if msr.GetMetric(name).Failures() > 0 {
			properties.Attributes["color"] = "red"
		}

		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}
		edgeColor, err := gradient(fraction)
		if err != nil {
			return err
		}

		for parent := range predecessors[name] {
			err := d.graph.UpdateEdge(parent, name,
				graph.EdgeAttribute("label", avg.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", edgeColor),
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge from %s to %s", parent, name)
			}
		}
	}

	return nil
}

// gradient maps fraction in [0, 1] to a colour between blue and red.
func gradient(fraction float64) (string, error) {
	red := maxRGB * fraction
	blue := maxRGB - red

	col, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return col.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		{{quote .Source}} {{if .Target}}{{$.EdgeOperator}} {{quote .Target}} [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(gra graph.Graph[string, string], wrt io.Writer) error {
	desc, err := generateDOT(gra)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// generateDOT lists vertices and edges sorted by name so the output is stable.
func generateDOT(gra graph.Graph[string, string]) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)
		for key, value := range sourceProperties.Attributes {
			if key == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, html.EscapeString(vertex), html.EscapeString(value))

				continue
			}
			attributes[key] = value
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"quote": strconv.Quote}).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
