// Package graph generates DOT and Mermaid format dependency graphs from
// synthesized templates.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	awscdk "github.com/dpilch/aws-cdk"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from a synthesized template.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by service type.
	ClusterByType bool
}

// Generate creates a dependency graph for the template and writes it to w.
func (g *Generator) Generate(template *awscdk.Template, w io.Writer) error {
	graph := g.buildGraph(template)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(template *awscdk.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(template, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildGraph creates the dot.Graph structure from the template resources.
func (g *Generator) buildGraph(template *awscdk.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByType {
		g.addClusteredNodes(graph, template)
	} else {
		g.addNodes(graph, template)
	}

	for name, res := range template.Resources {
		for _, dep := range res.DependsOn {
			if _, exists := template.Resources[dep]; !exists {
				continue
			}
			graph.Edge(graph.Node(name), graph.Node(dep))
		}
	}

	return graph
}

// addNodes adds resource nodes without clustering.
func (g *Generator) addNodes(graph *dot.Graph, template *awscdk.Template) {
	for name, res := range template.Resources {
		n := graph.Node(name)
		n.Label(name + "\\n[" + res.Type + "]")
	}
}

// addClusteredNodes adds resource nodes grouped by service type.
func (g *Generator) addClusteredNodes(graph *dot.Graph, template *awscdk.Template) {
	serviceResources := make(map[string][]string)
	resourceTypes := make(map[string]string)

	for name, res := range template.Resources {
		service := extractService(res.Type)
		serviceResources[service] = append(serviceResources[service], name)
		resourceTypes[name] = res.Type
	}

	for service, resNames := range serviceResources {
		if len(resNames) > 1 {
			cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
			cluster.Attr("label", service)
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")

			for _, name := range resNames {
				n := cluster.Node(name)
				n.Label(name + "\\n[" + resourceTypes[name] + "]")
			}
		} else {
			for _, name := range resNames {
				n := graph.Node(name)
				n.Label(name + "\\n[" + resourceTypes[name] + "]")
			}
		}
	}
}

// extractService extracts the service name from a resource type.
// e.g., "AWS::IAM::Role" -> "IAM", "Custom::LogRetention" -> "Custom"
func extractService(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) >= 2 {
		if parts[0] == "Custom" {
			return "Custom"
		}
		return parts[1]
	}
	return "Other"
}
