package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Najib632/Polly-API/internal/config"
	"github.com/Najib632/Polly-API/pkg/polly"
	"gopkg.in/yaml.v3"
)

// Messages are the human-readable lines printed for one operation. When
// Block is set the success body goes on its own lines, pretty-printed;
// otherwise it follows Data on the same line.
type Messages struct {
	Success string
	Failure string
	Data    string
	Block   bool
}

var operationMessages = map[string]Messages{
	polly.OperationRegister: {
		Success: "Registration successful!",
		Failure: "Registration failed.",
		Data:    "Response JSON:",
	},
	polly.OperationListPolls: {
		Success: "Successfully fetched polls!",
		Failure: "Failed to fetch polls.",
		Data:    "Polls Data:",
		Block:   true,
	},
}

const noResponseMessage = "The request failed. Unable to get a response from the server."

// Printer renders call outcomes for a human reader. It never changes control flow.
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter writes to w using the json (default) or yaml body format.
func NewPrinter(w io.Writer, format string) *Printer {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != config.OutputYAML {
		format = config.OutputJSON
	}
	return &Printer{w: w, format: format}
}

// Print writes the status, the outcome line and the decoded body.
func (p *Printer) Print(out polly.Outcome) {
	if !out.HasResponse() {
		fmt.Fprintln(p.w, noResponseMessage)
		return
	}

	msgs, ok := operationMessages[out.Operation]
	if !ok {
		msgs = Messages{Success: "Request successful!", Failure: "Request failed.", Data: "Response JSON:"}
	}

	fmt.Fprintf(p.w, "Status Code: %d\n", out.StatusCode)

	body := out.Decode()
	if out.OK() {
		fmt.Fprintln(p.w, msgs.Success)
		if body.Kind == polly.BodyJSON {
			if msgs.Block {
				p.printBlock(msgs.Data, body.JSON)
			} else {
				p.printInline(msgs.Data, body.JSON)
			}
			return
		}
		fmt.Fprintln(p.w, "Could not decode JSON from response.")
		p.printText("Response Content:", body)
		return
	}

	fmt.Fprintln(p.w, msgs.Failure)
	if body.Kind == polly.BodyJSON {
		p.printInline("Error Response:", body.JSON)
		return
	}
	fmt.Fprintln(p.w, "Could not decode JSON from error response.")
	p.printText("Error Content:", body)
}

// printInline writes the label and the compact JSON value on one line.
func (p *Printer) printInline(label string, value any) {
	out, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintf(p.w, "%s %v\n", label, value)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", label, out)
}

// printBlock writes the label, then the value indented over several lines.
func (p *Printer) printBlock(label string, value any) {
	rendered, err := p.render(value)
	if err != nil {
		p.printInline(label, value)
		return
	}
	fmt.Fprintln(p.w, label)
	fmt.Fprintln(p.w, strings.TrimRight(rendered, "\n"))
}

func (p *Printer) render(value any) (string, error) {
	if p.format == config.OutputYAML {
		out, err := yaml.Marshal(yamlValue(value))
		return string(out), err
	}
	out, err := json.MarshalIndent(value, "", "  ")
	return string(out), err
}

// yamlValue swaps json.Number leaves for scalar nodes so numbers are written
// with their original digits instead of as quoted strings.
func yamlValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(v), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = yamlValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return value
	}
}

func (p *Printer) printText(label string, body polly.Body) {
	if body.Title != "" {
		fmt.Fprintf(p.w, "Page Title: %s\n", body.Title)
	}
	fmt.Fprintf(p.w, "%s %s\n", label, body.Text)
}
