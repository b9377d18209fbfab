package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphmount/graphmount"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

var (
	servePort     int
	serveHost     string
	serveLoopback bool
	serveMem      []string
	serveMemRO    []string
	servePing     bool
	serveStats    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve datasets over HTTP",
	Long: `Serve mounts datasets and serves them until interrupted.

Datasets come from --mem/--mem-read-only flags, from a description file
given with --config, or both. The built-in handlers cover graph-store
read and write; query and update execution need an engine and respond
501 until one is attached through the library API.`,
	Example: `  graphmount serve --mem /ds
  graphmount serve --config server.yaml --port 3330
  graphmount serve --mem-read-only /archive --stats`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3330, "port to listen on (0 picks a free port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "interface to listen on")
	serveCmd.Flags().BoolVar(&serveLoopback, "loopback", false, "listen on localhost only")
	serveCmd.Flags().StringArrayVar(&serveMem, "mem", nil, "mount an updatable in-memory dataset at the given name")
	serveCmd.Flags().StringArrayVar(&serveMemRO, "mem-read-only", nil, "mount a read-only in-memory dataset at the given name")
	serveCmd.Flags().BoolVar(&servePing, "ping", true, "enable the /$/ping endpoint")
	serveCmd.Flags().BoolVar(&serveStats, "stats", false, "enable the /$/stats endpoint")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if configFile == "" && len(serveMem) == 0 && len(serveMemRO) == 0 {
		return fmt.Errorf("nothing to serve: use --mem, --mem-read-only or --config")
	}

	opts := []graphmount.Option{
		graphmount.WithPort(servePort),
		graphmount.WithHost(serveHost),
		graphmount.WithLoopback(serveLoopback),
		graphmount.WithPing(servePing),
		graphmount.WithStats(serveStats),
		graphmount.WithOperationCatalog(serveCatalog()),
	}
	if configFile != "" {
		opts = append(opts, graphmount.WithConfigFile(configFile))
	}
	for _, name := range serveMem {
		opts = append(opts, graphmount.WithDataset(name, rdf.NewMemory(), true))
	}
	for _, name := range serveMemRO {
		opts = append(opts, graphmount.WithReadOnlyDataset(name, rdf.NewMemory()))
	}

	srv, err := graphmount.New(opts...)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		// The signal context is already cancelled; shutdown gets a fresh one.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// serveCatalog builds the operation catalog for the standalone server.
func serveCatalog() *mount.Catalog {
	return mount.NewStdCatalog(
		mount.HandlerFunc(notImplemented("query execution")),
		mount.HandlerFunc(notImplemented("update execution")),
		mount.HandlerFunc(graphStoreRead),
		mount.HandlerFunc(graphStoreReadWrite),
	)
}

// notImplemented serves 501 for operations that need an external engine.
func notImplemented(what string) func(*mount.Action) {
	return func(a *mount.Action) {
		http.Error(a.W, fmt.Sprintf("%s is not built in; attach a handler through the library API", what),
			http.StatusNotImplemented)
	}
}

// graphStoreRead lists the triples of one graph, one "subject predicate
// object" line per triple. The ?graph= parameter selects a named graph;
// without it the default graph is listed.
func graphStoreRead(a *mount.Action) {
	dsg := a.Dataset()
	if err := dsg.Begin(rdf.TxnRead); err != nil {
		http.Error(a.W, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer dsg.End()

	g := dsg.DefaultGraph()
	if name := a.R.URL.Query().Get("graph"); name != "" {
		named, ok := dsg.Graph(name)
		if !ok {
			http.Error(a.W, "no such graph: "+name, http.StatusNotFound)
			return
		}
		g = named
	}

	a.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, t := range g.Find("", "", "") {
		fmt.Fprintf(a.W, "%s %s %s\n", t.Subject, t.Predicate, t.Object)
	}
}

// graphStoreReadWrite serves reads like graphStoreRead and accepts
// whitespace-separated triples, one per line, on POST.
func graphStoreReadWrite(a *mount.Action) {
	if a.R.Method != http.MethodPost {
		graphStoreRead(a)
		return
	}

	dsg := a.Dataset()
	if err := dsg.Begin(rdf.TxnWrite); err != nil {
		http.Error(a.W, err.Error(), http.StatusForbidden)
		return
	}
	defer dsg.End()

	g := dsg.DefaultGraph()
	added := 0
	scanner := bufio.NewScanner(a.R.Body)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			http.Error(a.W, "each line must hold exactly three terms", http.StatusBadRequest)
			return
		}
		t := rdf.Triple{Subject: fields[0], Predicate: fields[1], Object: fields[2]}
		if err := g.Add(t); err != nil {
			http.Error(a.W, err.Error(), http.StatusForbidden)
			return
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		http.Error(a.W, err.Error(), http.StatusBadRequest)
		return
	}

	a.Log.Info().Int("triples", added).Msg("Graph store upload")
	fmt.Fprintf(a.W, "added %d triples\n", added)
}
