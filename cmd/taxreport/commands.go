package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/username/opodatkuvayco/backend/src/config"
	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/parsers"
	"github.com/username/opodatkuvayco/backend/src/processors"
	"github.com/username/opodatkuvayco/backend/src/security"
	"github.com/username/opodatkuvayco/backend/src/services"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{kind: services.KindShort, synopsis: "print the capital gains report, one line per ticker"}, "reports")
	c.Register(&reportCmd{kind: services.KindExtended, synopsis: "print every matched deal with its valuation"}, "reports")
	c.Register(&reportCmd{kind: services.KindPrevious, synopsis: "print the buy lots still open after matching"}, "reports")
	c.Register(&reportCmd{kind: services.KindDividends, synopsis: "print the dividend report"}, "reports")
	c.Register(&tokenCmd{}, "auth")
}

// reportCmd runs one report kind over a local export file.
type reportCmd struct {
	kind     string
	synopsis string
	rates    string
	pretty   bool
}

func (c *reportCmd) Name() string {
	if c.kind == services.KindShort {
		return "report"
	}
	return c.kind
}

func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string {
	return fmt.Sprintf(`taxreport %s [-rates <file>] [-pretty] <report.json>

  %s.
  Rates come from the NBU API unless -rates names a local rate table.
`, c.Name(), c.synopsis)
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rates, "rates", "", "JSON rate table [{cc, exchangedate, rate}] to use instead of the NBU API")
	f.BoolVar(&c.pretty, "pretty", false, "indent the JSON output")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	logger.InitLogger(cfg.LogLevel)
	if c.rates != "" {
		cfg.HistoricalRatesPath = c.rates
	}

	converter, closeRates, err := services.NewConverter(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeRates()

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	if err := runReport(ctx, newReportService(converter), c.kind, file, os.Stdout, c.pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", models.KindOf(err), err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func newReportService(converter processors.CurrencyConverter) services.ReportService {
	parser, _ := parsers.GetParser(parsers.DefaultSource)
	return services.NewReportService(parser,
		processors.NewStockProcessor(converter),
		processors.NewDividendProcessor(converter),
		nil,
	)
}

// runReport computes report kind over r and writes it to w as JSON.
func runReport(ctx context.Context, svc services.ReportService, kind string, r io.Reader, w io.Writer, pretty bool) error {
	var (
		result interface{}
		err    error
	)
	switch kind {
	case services.KindShort:
		result, err = svc.ShortReport(ctx, r)
	case services.KindExtended:
		result, err = svc.FullReport(ctx, r)
	case services.KindPrevious:
		result, err = svc.PreviousDeals(ctx, r)
	case services.KindDividends:
		result, err = svc.Dividends(ctx, r)
	default:
		return fmt.Errorf("unknown report kind %q", kind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// tokenCmd issues a bearer token for the HTTP API.
type tokenCmd struct {
	subject string
	ttl     time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token signed with JWT_SECRET" }
func (*tokenCmd) Usage() string {
	return `taxreport token [-sub <subject>] [-ttl <duration>]

  Prints an HS256 token accepted by the report routes.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "sub", "cli", "token subject")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "token lifetime")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	token, err := security.NewAuthService(cfg.JWTSecret).GenerateToken(c.subject, c.ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
