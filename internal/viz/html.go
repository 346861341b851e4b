package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// GenerateHTML renders a document as a self-contained interactive HTML
// page. The page loads vis-network from a CDN, so it remains valid when
// served statically with no server-side computation at view time.
func GenerateHTML(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document cannot be nil")
	}

	if doc.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	nodesJSON, edgesJSON, err := doc.MarshalParts()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     doc.ProfessorID,
		NodesJSON: template.JS(nodesJSON),
		EdgesJSON: template.JS(edgesJSON),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	NodesJSON template.JS
	EdgesJSON template.JS
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Knowledge Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f8fafc;
      color: #64748b;
    }
  </style>
</head>
<body>
  <p>No graph data available.</p>
</body>
</html>
`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Knowledge Graph - {{.Title}}</title>
  <script src="https://unpkg.com/vis-network@9/standalone/umd/vis-network.min.js"></script>
  <style>
    body {
      margin: 0;
      background: #f8fafc;
      font-family: Arial, sans-serif;
      color: #1e293b;
    }
    #graph {
      width: 100%;
      height: 900px;
    }
  </style>
</head>
<body>
  <div id="graph"></div>
  <script type="text/javascript">
    var nodes = new vis.DataSet({{.NodesJSON}});
    var edges = new vis.DataSet({{.EdgesJSON}});
    var container = document.getElementById("graph");
    var options = {
      nodes: {
        shadow: { enabled: true, color: "rgba(0,0,0,0.15)", size: 12, x: 3, y: 3 },
        font: { size: 16, face: "Arial, sans-serif", strokeWidth: 0, align: "center" }
      },
      edges: {
        smooth: { enabled: true, type: "curvedCW", roundness: 0.2 },
        color: { inherit: false },
        width: 2
      },
      physics: { enabled: false },
      interaction: {
        hover: true,
        tooltipDelay: 100,
        navigationButtons: true,
        keyboard: { enabled: true },
        zoomView: true,
        dragView: true,
        dragNodes: true
      },
      layout: {
        randomSeed: 42,
        improvedLayout: true,
        hierarchical: {
          enabled: true,
          direction: "LR",
          sortMethod: "directed",
          nodeSpacing: 200,
          levelSeparation: 250,
          treeSpacing: 200,
          blockShifting: true,
          edgeMinimization: true,
          parentCentralization: true
        }
      }
    };
    var network = new vis.Network(container, { nodes: nodes, edges: edges }, options);
    network.on("click", function (params) {
      if (params.nodes.length > 0) {
        var node = nodes.get(params.nodes[0]);
        if (node && node.url) {
          window.open(node.url, "_blank");
        }
      }
    });
  </script>
</body>
</html>
`
