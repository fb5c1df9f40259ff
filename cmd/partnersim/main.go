// Command partnersim runs a partnership population scenario to its horizon,
// prints the per-year history, and optionally archives the run and exports
// result artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"partnersim/internal/adapters/results"
	"partnersim/internal/blob"
	"partnersim/internal/infra/persistence/memory"
	"partnersim/internal/sim"
	"partnersim/pkg/domain"
)

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("partnersim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		years      int
		seed       int64
		startYear  int
		configPath string
		seedPath   string
		archive    bool
		export     string
	)
	fs.IntVar(&years, "years", 0, "horizon override in years")
	fs.Int64Var(&seed, "seed", 0, "RNG seed override")
	fs.IntVar(&startYear, "start-year", 0, "start year override")
	fs.StringVar(&configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&seedPath, "seed-table", "", "path to a JSON seed table replacing the default bootstrap")
	fs.BoolVar(&archive, "archive", false, "persist the run via PARTNERSIM_STORAGE_DRIVER")
	fs.StringVar(&export, "export", "", "comma-separated artifact formats (csv,json) written via PARTNERSIM_BLOB_DRIVER")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := domain.DefaultConfig()
	if configPath != "" {
		if err := loadJSON(configPath, &cfg); err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 1
		}
	}
	if years > 0 {
		cfg.HorizonYears = years
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if startYear != 0 {
		cfg.StartYear = startYear
	}

	var table domain.SeedTable
	if seedPath != "" {
		if err := loadJSON(seedPath, &table); err != nil {
			fmt.Fprintf(stderr, "load seed table: %v\n", err)
			return 1
		}
	}

	ctx := context.Background()
	store, err := openArchive(archive)
	if err != nil {
		fmt.Fprintf(stderr, "open archive: %v\n", err)
		return 1
	}
	service := sim.NewService(store)

	record, err := service.RunScenario(ctx, cfg, table)
	if err != nil {
		fmt.Fprintf(stderr, "run scenario: %v\n", err)
		return 1
	}

	printHistory(stdout, record.History)
	if archive {
		fmt.Fprintf(stdout, "archived run %s\n", record.ID)
	}

	if export != "" {
		if err := exportArtifacts(ctx, stdout, service, record.ID, export); err != nil {
			fmt.Fprintf(stderr, "export: %v\n", err)
			return 1
		}
	}
	return 0
}

func openArchive(persistent bool) (domain.PersistentStore, error) {
	engine := sim.NewDefaultArchiveRulesEngine()
	if persistent {
		return sim.OpenPersistentStore(engine)
	}
	return memory.NewStore(engine), nil
}

func loadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func printHistory(w io.Writer, history []domain.TickSnapshot) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(sim.SnapshotColumns(), "\t"))
	for _, row := range history {
		values := sim.SnapshotValues(row)
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprintf("%d", v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

func exportArtifacts(ctx context.Context, stdout io.Writer, service *sim.Service, runID, formatList string) error {
	var formats []results.Format
	for _, f := range strings.Split(formatList, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		formats = append(formats, results.Format(f))
	}

	blobStore, err := blob.Open(ctx)
	if err != nil {
		return err
	}
	worker := results.NewWorker(service, results.NewBlobObjectStore(blobStore), nil)
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = worker.Stop(stopCtx)
	}()

	record, err := worker.EnqueueExport(ctx, results.ExportInput{RunID: runID, Formats: formats, RequestedBy: "cli"})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(30 * time.Second)
	for {
		current, ok := worker.GetExport(record.ID)
		if !ok {
			return fmt.Errorf("export %s vanished", record.ID)
		}
		switch current.Status {
		case results.ExportStatusSucceeded:
			for _, artifact := range current.Artifacts {
				fmt.Fprintf(stdout, "exported %s (%s, %d bytes) %s\n", artifact.ID, artifact.Format, artifact.SizeBytes, artifact.URL)
			}
			return nil
		case results.ExportStatusFailed:
			return fmt.Errorf("export failed: %s", current.Error)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("export %s timed out", record.ID)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
