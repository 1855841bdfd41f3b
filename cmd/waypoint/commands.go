package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/importer"
	"github.com/poiesic/waypoint/search"
	"github.com/urfave/cli/v2"
)

func searchCommand(c *cli.Context) error {
	region := core.Region{
		Center: core.Coordinate{
			Latitude:  c.Float64("lat"),
			Longitude: c.Float64("lon"),
		},
		LatitudeDelta:  c.Float64("span"),
		LongitudeDelta: c.Float64("span"),
	}
	if err := core.ValidateRegion(region); err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	debounce := c.Duration("debounce")
	o, err := engine.NewOrchestrator(search.WithDebounceInterval(debounce))
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer o.Close()

	states, unsubscribe := o.Subscribe(1)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		var last uint64
		for st := range states {
			// Skip the initial empty snapshot and in-flight markers
			if st.IsSearching || (st.Generation == last && len(st.Candidates) == 0) {
				continue
			}
			last = st.Generation
			printState(c.App.Writer, st)
		}
	}()

	if phrase := c.String("type"); phrase != "" {
		typePhrase(o, phrase, region, c.Duration("keystroke-delay"))
	} else {
		scanner := bufio.NewScanner(c.App.Reader)
		for scanner.Scan() {
			o.Search(strings.TrimRight(scanner.Text(), "\r"), region)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read queries: %w", err)
		}
	}

	waitForResults(o, debounce, c.Duration("wait"))
	unsubscribe()
	<-printed
	return nil
}

// typePhrase reports every prefix of phrase as if typed by a user.
func typePhrase(o *search.Orchestrator, phrase string, region core.Region, delay time.Duration) {
	runes := []rune(phrase)
	for i := range runes {
		o.Search(string(runes[:i+1]), region)
		time.Sleep(delay)
	}
}

// waitForResults returns once the last query has been dispatched and its
// round has settled, or when wait runs out.
func waitForResults(o *search.Orchestrator, debounce, wait time.Duration) {
	deadline := time.Now().Add(wait)
	time.Sleep(debounce + 50*time.Millisecond)

	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for time.Now().Before(deadline) {
		if !o.State().IsSearching {
			return
		}
		<-ticker.C
	}
}

func printState(w io.Writer, st search.State) {
	if st.Query == "" {
		fmt.Fprintln(w, "(cleared)")
		return
	}
	fmt.Fprintf(w, "%q: %d result(s)\n", st.Query, len(st.Candidates))
	for i, candidate := range st.Candidates {
		line := candidate.Address.Line()
		if line == "" {
			line = candidate.Category
		}
		fmt.Fprintf(w, "  %2d. %s", i+1, candidate.DisplayName())
		if candidate.Coordinate != nil {
			fmt.Fprintf(w, " (%.5f, %.5f)", candidate.Coordinate.Latitude, candidate.Coordinate.Longitude)
		}
		if line != "" {
			fmt.Fprintf(w, " - %s", line)
		}
		fmt.Fprintln(w)
	}
}

func saveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	candidate := &core.PlaceCandidate{
		Name: c.String("name"),
		Coordinate: &core.Coordinate{
			Latitude:  c.Float64("lat"),
			Longitude: c.Float64("lon"),
		},
	}
	loc, err := engine.SaveCandidate(c.Context, candidate, c.Int64("owner"))
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Saved %s (%s)\n", loc.Name, loc.Id)
	return nil
}

func locationsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	owner := c.Int64("owner")
	locs, err := engine.Locations(c.Context, owner, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}
	if len(locs) == 0 {
		fmt.Fprintf(c.App.Writer, "No saved locations for owner %d\n", owner)
		return nil
	}
	for _, loc := range locs {
		fmt.Fprintf(c.App.Writer, "%s  %-30s (%.5f, %.5f)  %s\n",
			loc.Id, loc.Name, loc.Latitude, loc.Longitude, loc.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	id, err := uuid.Parse(c.String("id"))
	if err != nil {
		return fmt.Errorf("invalid location id: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.DeleteLocation(c.Context, id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Deleted %s\n", id)
	return nil
}

func importCommand(c *cli.Context) error {
	config := &importer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	var feed io.Reader = c.App.Reader
	if path := c.String("file"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open feed: %w", err)
		}
		defer f.Close()
		feed = f
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", c.String("db"))
	fmt.Fprintf(c.App.ErrWriter, "Feed: %s\n", c.String("file"))
	fmt.Fprintln(c.App.ErrWriter)

	if _, err := engine.Import(c.Context, feed, c.App.ErrWriter, config); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
