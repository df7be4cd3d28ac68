package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/peterkuimelis/deckhand/internal/config"
	"github.com/peterkuimelis/deckhand/internal/log"
	"github.com/peterkuimelis/deckhand/internal/tools"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "view":
		runSimple(args, func(kit *tools.Toolkit, ctx context.Context) string { return kit.ViewDeck() })
	case "stats":
		runSimple(args, func(kit *tools.Toolkit, ctx context.Context) string { return kit.DeckStats() })
	case "curve":
		runSimple(args, (*tools.Toolkit).ManaCurve)
	case "info":
		runSimple(args, (*tools.Toolkit).EnhancedDeckInfo)
	case "list":
		runList(args)
	case "modify":
		runModify(args)
	case "card":
		runCard(args)
	case "refresh":
		runRefresh(args)
	case "image":
		runImage(args)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  deckhand view     [--config FILE]                 Show the raw deck with totals")
	fmt.Println("  deckhand stats    [--config FILE]                 Show deck statistics")
	fmt.Println("  deckhand list     [--config FILE]                 Show the deck as a table with card details")
	fmt.Println("  deckhand curve    [--config FILE]                 Show the mana curve")
	fmt.Println("  deckhand info     [--config FILE]                 Show the enriched deck listing")
	fmt.Println("  deckhand modify   --card NAME --delta N           Add or remove copies of a card")
	fmt.Println("  deckhand card     NAME                            Look up a card on Scryfall")
	fmt.Println("  deckhand refresh  NAME                            Re-fetch a card's cached record")
	fmt.Println("  deckhand image    NAME                            Download a card's image")
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet) (configPath *string, verbose *bool) {
	configPath = fs.String("config", "deckhand.yaml", "path to config file")
	verbose = fs.Bool("verbose", false, "log cache and network activity to stderr")
	return
}

func buildToolkit(configPath string, verbose bool) *tools.Toolkit {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var logger log.EventLogger
	if verbose {
		logger = log.NewTextLogger(os.Stderr)
	}
	return tools.New(cfg, logger)
}

func runSimple(args []string, op func(*tools.Toolkit, context.Context) string) {
	fs := flag.NewFlagSet("deckhand", flag.ExitOnError)
	configPath, verbose := commonFlags(fs)
	fs.Parse(args)

	kit := buildToolkit(*configPath, *verbose)
	fmt.Println(op(kit, context.Background()))
}

func runModify(args []string) {
	fs := flag.NewFlagSet("modify", flag.ExitOnError)
	configPath, verbose := commonFlags(fs)
	card := fs.String("card", "", "card name (case-insensitive)")
	delta := fs.Int("delta", 0, "copies to add (positive) or remove (negative)")
	fs.Parse(args)

	if *card == "" || *delta == 0 {
		fmt.Fprintln(os.Stderr, "Error: --card and a non-zero --delta are required")
		os.Exit(1)
	}

	kit := buildToolkit(*configPath, *verbose)
	fmt.Println(kit.ModifyCard(*card, *delta))
}

func runCard(args []string) {
	runNamed(args, "card", (*tools.Toolkit).CardInfo)
}

func runRefresh(args []string) {
	runNamed(args, "refresh", (*tools.Toolkit).RefreshCard)
}

func runImage(args []string) {
	runNamed(args, "image", (*tools.Toolkit).DownloadImage)
}

// runNamed handles the subcommands that take a single card name argument.
func runNamed(args []string, name string, op func(*tools.Toolkit, context.Context, string) string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath, verbose := commonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s takes exactly one card name\n", name)
		os.Exit(1)
	}

	kit := buildToolkit(*configPath, *verbose)
	fmt.Println(op(kit, context.Background(), fs.Arg(0)))
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath, verbose := commonFlags(fs)
	fs.Parse(args)

	kit := buildToolkit(*configPath, *verbose)
	ctx := context.Background()

	d, err := kit.Store.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var rows [][]string
	appendRow := func(quantity int, name, role string) {
		qty := strconv.Itoa(quantity)
		card, err := kit.Cards.Get(ctx, name)
		if err != nil {
			rows = append(rows, []string{qty, name, role, "?", "?", "not found"})
			return
		}
		rows = append(rows, []string{
			qty, card.Name, role, card.ManaCost,
			strconv.FormatFloat(card.CMC, 'f', -1, 64), card.TypeLine,
		})
	}

	for _, ln := range d.Library() {
		appendRow(ln.Quantity, ln.Name, "")
	}
	if commander, ok := d.Commander(); ok {
		appendRow(commander.Quantity, commander.Name, "Commander")
	}

	headers := []string{"Qty", "Name", "Role", "Cost", "CMC", "Type"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	fmt.Println(renderTable(headers, rows, aligns))
}
