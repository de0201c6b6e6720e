// Package main provides the scout-bee CLI entry point.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SolidLabResearch/hive-scout-bee/pkg/approach"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/config"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/logging"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/rdf"
	"github.com/SolidLabResearch/hive-scout-bee/pkg/store"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scoutbee",
		Short: "scout-bee - signature analysis and approach selection for RDF stream windows",
		Long: `scout-bee fingerprints windows of RDF triples and recommends which
processing approach fits each window.

A window's signature captures its statistical character: triple count,
variance and skewness of the numeric object values, predicate entropy,
and the spectral (FFT) entropy of the numeric sequence. User-declared
approach rules with min/max thresholds on those metrics are matched
against the signature; the tightest matching rule wins.`,
	}

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scout-bee v%s (%s)\n", version, commit)
		},
	})

	// Analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze [window.json]",
		Short: "Analyze a window of triples and recommend an approach",
		Long: `Analyze reads a window document (JSON) from a file or stdin, extracts
its signature, matches it against the approach catalog, and prints the
recommendation.

The window document is either a bare JSON array of triples or an object
{"id": "...", "triples": [...]}. Each triple has "subject", "predicate"
and an "object" term {"type": "iri"|"literal"|"bnode", "value": "...",
"datatype": "...", "language": "..."}.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	analyzeCmd.Flags().String("data-dir", "", "Data directory for the approach catalog and journal")
	analyzeCmd.Flags().String("approaches", "", "Approach file (YAML/JSON) loaded on top of the catalog")
	analyzeCmd.Flags().String("output", "", "Output format: text or json")
	analyzeCmd.Flags().Bool("explain", false, "Show the per-approach evaluation breakdown")
	analyzeCmd.Flags().String("window-id", "", "Window identifier recorded in the journal")
	analyzeCmd.Flags().Bool("journal", false, "Force journaling on for this run")
	rootCmd.AddCommand(analyzeCmd)

	// Approaches command group
	approachesCmd := &cobra.Command{
		Use:   "approaches",
		Short: "Manage the approach catalog",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored approaches",
		RunE:  runApproachesList,
	}
	listCmd.Flags().String("data-dir", "", "Data directory")
	listCmd.Flags().String("output", "", "Output format: text or json")
	approachesCmd.AddCommand(listCmd)

	showCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show one stored approach",
		Args:  cobra.ExactArgs(1),
		RunE:  runApproachesShow,
	}
	showCmd.Flags().String("data-dir", "", "Data directory")
	approachesCmd.AddCommand(showCmd)

	addCmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Store every approach from a YAML/JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runApproachesAdd,
	}
	addCmd.Flags().String("data-dir", "", "Data directory")
	approachesCmd.AddCommand(addCmd)

	removeCmd := &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a stored approach",
		Args:  cobra.ExactArgs(1),
		RunE:  runApproachesRemove,
	}
	removeCmd.Flags().String("data-dir", "", "Data directory")
	approachesCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(approachesCmd)

	// Journal command
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recent analysis records",
		RunE:  runJournal,
	}
	journalCmd.Flags().String("data-dir", "", "Data directory")
	journalCmd.Flags().Int("limit", 0, "Number of records to show")
	journalCmd.Flags().String("output", "", "Output format: text or json")
	rootCmd.AddCommand(journalCmd)

	// Init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter approach file",
		RunE:  runInit,
	}
	initCmd.Flags().String("file", "approaches.yaml", "Where to write the starter file")
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges flag overrides into the environment configuration and
// initializes logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.LoadFromEnv()

	if cmd.Flags().Changed("data-dir") {
		cfg.Store.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("approaches") {
		cfg.Approaches.File, _ = cmd.Flags().GetString("approaches")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("journal") {
		cfg.Store.JournalEnabled, _ = cmd.Flags().GetBool("journal")
	}
	if cmd.Flags().Changed("limit") {
		cfg.Store.JournalLimit, _ = cmd.Flags().GetInt("limit")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logging.Init(level, cfg.Logging.Format)

	return cfg, nil
}

// openStore opens the catalog/journal store: persistent when a data
// directory is configured, in-memory otherwise.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.DataDir == "" {
		return store.OpenInMemory()
	}
	if err := os.MkdirAll(cfg.Store.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.Open(cfg.Store.DataDir)
}

// buildSelector seeds a selector from the stored catalog (name order), then
// upserts the approach file on top so file entries win on name clashes.
func buildSelector(st *store.Store, approachFile string) (*approach.Selector, error) {
	sel := approach.NewSelector()

	catalog, err := st.Approaches()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	for _, cfg := range catalog {
		if err := sel.Add(cfg); err != nil {
			return nil, err
		}
	}

	if approachFile != "" {
		cfgs, err := approach.LoadFile(approachFile)
		if err != nil {
			return nil, err
		}
		for _, cfg := range cfgs {
			if err := sel.Add(cfg); err != nil {
				return nil, err
			}
		}
	}

	return sel, nil
}

// windowDocument is the JSON shape accepted by analyze.
type windowDocument struct {
	ID      string     `json:"id,omitempty"`
	Triples rdf.Window `json:"triples"`
}

// readWindow loads a window document from a file, or stdin when path is
// empty or "-". A bare JSON array of triples is accepted too.
func readWindow(path string) (windowDocument, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return windowDocument{}, fmt.Errorf("reading window: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var w rdf.Window
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return windowDocument{}, fmt.Errorf("parsing window: %w", err)
		}
		return windowDocument{Triples: w}, nil
	}

	var doc windowDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return windowDocument{}, fmt.Errorf("parsing window: %w", err)
	}
	return doc, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New("cli")

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	doc, err := readWindow(path)
	if err != nil {
		return err
	}
	if windowID, _ := cmd.Flags().GetString("window-id"); windowID != "" {
		doc.ID = windowID
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sel, err := buildSelector(st, cfg.Approaches.File)
	if err != nil {
		return err
	}

	rec := sel.Choose(doc.Triples)
	explain, _ := cmd.Flags().GetBool("explain")

	// Journaling into an in-memory store would vanish with the process,
	// so it only happens against a real data directory.
	if cfg.Store.JournalEnabled && cfg.Store.DataDir != "" {
		stored, err := st.AppendAnalysis(store.AnalysisRecord{
			WindowID:       doc.ID,
			Recommendation: rec,
		})
		if err != nil {
			return fmt.Errorf("journaling analysis: %w", err)
		}
		log.Debug("analysis journaled", "id", stored.ID, "windowId", stored.WindowID)
	}

	if cfg.Output == "json" {
		out := struct {
			WindowID       string                  `json:"windowId,omitempty"`
			Recommendation approach.Recommendation `json:"recommendation"`
			Evaluations    []approach.Evaluation   `json:"evaluations,omitempty"`
		}{WindowID: doc.ID, Recommendation: rec}
		if explain {
			out.Evaluations = sel.Explain(rec.Signature)
		}
		return printJSON(out)
	}

	printRecommendation(doc.ID, rec)
	if explain {
		printEvaluations(sel.Explain(rec.Signature))
	}
	return nil
}

func printRecommendation(windowID string, rec approach.Recommendation) {
	label := "window"
	if windowID != "" {
		label = fmt.Sprintf("window %s", windowID)
	}
	sig := rec.Signature

	fmt.Printf("🔎 Analyzed %s: %d triples\n", label, sig.TripleCount)
	fmt.Printf("   variance:   %.6g\n", sig.Variance)
	fmt.Printf("   skewness:   %.6g\n", sig.Skewness)
	fmt.Printf("   entropy:    %.6g\n", sig.Entropy)
	fmt.Printf("   fftEntropy: %.6g\n", sig.FFTEntropy)

	if len(rec.MatchingApproaches) > 0 {
		fmt.Printf("   matching:   %s\n", strings.Join(rec.MatchingApproaches, ", "))
	} else {
		fmt.Printf("   matching:   (none)\n")
	}
	fmt.Printf("➜ Recommended: %s (confidence %.2f)\n", rec.RecommendedApproach, rec.Confidence)
}

func printEvaluations(evals []approach.Evaluation) {
	fmt.Println()
	fmt.Printf("   %-24s %-8s %-8s %-12s %s\n", "APPROACH", "MATCH", "SCORE", "SPECIFICITY", "PRIORITY")
	for _, ev := range evals {
		match := "no"
		if ev.Matched {
			match = "yes"
		}
		fmt.Printf("   %-24s %-8s %-8.3f %-12.4f %d\n",
			ev.Name, match, ev.Score, ev.Specificity, ev.Priority)
	}
}

func runApproachesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	configs, err := st.Approaches()
	if err != nil {
		return err
	}

	if cfg.Output == "json" {
		return printJSON(configs)
	}

	if len(configs) == 0 {
		fmt.Println("No approaches stored. Add some with: scoutbee approaches add approaches.yaml")
		return nil
	}

	fmt.Printf("%-24s %-9s %-6s %-6s %s\n", "NAME", "PRIORITY", "MIN", "MAX", "DESCRIPTION")
	for _, c := range configs {
		fmt.Printf("%-24s %-9d %-6d %-6d %s\n",
			c.Name, c.Priority, len(c.MinThresholds), len(c.MaxThresholds), c.Description)
	}
	return nil
}

func runApproachesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.GetApproach(args[0])
	if err != nil {
		return err
	}
	return printJSON(c)
}

func runApproachesAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	configs, err := approach.LoadFile(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, c := range configs {
		if err := st.PutApproach(c); err != nil {
			return fmt.Errorf("storing approach %q: %w", c.Name, err)
		}
	}

	fmt.Printf("✅ Stored %d approaches\n", len(configs))
	if cfg.Store.DataDir == "" {
		fmt.Println("⚠️  No data directory configured; the catalog lives in memory only.")
		fmt.Println("   Set SCOUTBEE_DATA_DIR or pass --data-dir to keep it.")
	}
	return nil
}

func runApproachesRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	existed, err := st.DeleteApproach(args[0])
	if err != nil {
		return err
	}
	if !existed {
		fmt.Printf("Approach %q was not stored.\n", args[0])
		return nil
	}
	fmt.Printf("✅ Removed approach %q\n", args[0])
	return nil
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.RecentAnalyses(cfg.Store.JournalLimit)
	if err != nil {
		return err
	}

	if cfg.Output == "json" {
		return printJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("Journal is empty.")
		return nil
	}

	fmt.Printf("%-25s %-16s %-24s %s\n", "TIMESTAMP", "WINDOW", "RECOMMENDED", "CONFIDENCE")
	for _, r := range records {
		fmt.Printf("%-25s %-16s %-24s %.2f\n",
			r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			r.WindowID,
			r.Recommendation.RecommendedApproach,
			r.Recommendation.Confidence)
	}
	return nil
}

const starterApproaches = `# scout-bee approach catalog
#
# Each approach declares min/max thresholds on signature metrics:
# tripleCount, variance, skewness, entropy, fftEntropy.
approaches:
  - name: frequency-analysis
    description: windows with rich spectral structure
    minThresholds:
      fftEntropy: 1.5
    priority: 5

  - name: high-variance
    description: widely spread numeric values
    minThresholds:
      variance: 100

  - name: low-volume
    description: small windows that fit a simple pass
    maxThresholds:
      tripleCount: 100
    priority: 1
`

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.WriteFile(path, []byte(starterApproaches), 0644); err != nil {
		return fmt.Errorf("writing starter file: %w", err)
	}

	fmt.Printf("✅ Wrote starter approach file to %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Store the catalog:  scoutbee approaches add", path, "--data-dir ./data")
	fmt.Println("  2. Analyze a window:   scoutbee analyze window.json --data-dir ./data")
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
