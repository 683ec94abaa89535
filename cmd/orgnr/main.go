// Command orgnr parses Swedish organization numbers from the command line.
//
// Usage:
//
//	orgnr parse 556016-0680
//	orgnr parse --json 5561034249 121212121212
//	orgnr vectors list.json
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/testvectors"
)

const version = "1.0.0"

var (
	validStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// CLI defines the command-line interface using Kong
type CLI struct {
	Parse   ParseCmd   `cmd:"" help:"Parse and describe organization numbers"`
	Vectors VectorsCmd `cmd:"" help:"Check the parser against a list.json test vector file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ParseCmd describes each number given.
type ParseCmd struct {
	JSON    bool     `name:"json" help:"Print one JSON summary per line"`
	Numbers []string `arg:"" required:"" help:"Organization numbers to parse"`
}

// errInvalid signals that at least one input was invalid. Details were already
// printed.
var errInvalid = errors.New("invalid organization number provided")

func (c *ParseCmd) Run(out io.Writer) error {
	failed := false
	enc := json.NewEncoder(out)
	for _, number := range c.Numbers {
		summary, err := orgnr.Describe(number)
		if err != nil {
			failed = true
		}
		if c.JSON {
			if err := enc.Encode(summary); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "%s %s\n", invalidStyle.Render("✗"), dimStyle.Render(number+": "+err.Error()))
			continue
		}
		fmt.Fprintf(out, "%s The company with organization number %s is a %s and the vat number is %s\n",
			validStyle.Render("✓"), summary.LongFormat, summary.Type, summary.VATNumber)
	}
	if failed {
		return errInvalid
	}
	return nil
}

// VectorsCmd runs a test vector file.
type VectorsCmd struct {
	File    string `arg:"" optional:"" type:"existingfile" help:"list.json file (default: built-in vectors)"`
	Verbose bool   `name:"verbose" short:"v" help:"Print every mismatch"`
}

func (c *VectorsCmd) Run(out io.Writer) error {
	vectors := testvectors.Embedded()
	if c.File != "" {
		loaded, err := testvectors.Load(c.File)
		if err != nil {
			return err
		}
		vectors = loaded
	}

	report := testvectors.Run(orgnr.NewParser(), vectors)
	if c.Verbose {
		for _, m := range report.Mismatches {
			fmt.Fprintln(out, dimStyle.Render(m.String()))
		}
	}

	if !report.OK() {
		fmt.Fprintln(out, invalidStyle.Render(fmt.Sprintf("%d of %d vectors failed", report.Failed, report.Total)))
		return fmt.Errorf("%d test vectors failed", report.Failed)
	}
	fmt.Fprintln(out, validStyle.Render(fmt.Sprintf("all %d vectors passed", report.Total)))
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintf(out, "orgnr %s\n", version)
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("orgnr"),
		kong.Description("Parse, validate and format Swedish organization numbers"),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
