// Command ippc is the interpreter's CLI front end: it loads a program,
// wires the register file and memory, and either runs the program to
// completion, serves it over the HTTP/WebSocket session API, or hands it
// to the TUI debugger — grounded on the teacher's root main.go, scoped
// down from its assemble-then-run pipeline to this interpreter's
// dispatch-straight-from-source-text model.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lookbusy1344/ppc-interp/api"
	"github.com/lookbusy1344/ppc-interp/config"
	"github.com/lookbusy1344/ppc-interp/debugger"
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
	"github.com/lookbusy1344/ppc-interp/internal/trace"
	"github.com/lookbusy1344/ppc-interp/loader"
)

func main() {
	var (
		memoryImage = flag.String("memory", "", "preload a raw binary memory image at 0x80000000")
		configPath  = flag.String("config", "", "path to a TOML config file (default: platform config dir)")
		tuiMode     = flag.Bool("tui", false, "launch the interactive TUI debugger instead of running to completion")
		apiServer   = flag.Bool("api-server", false, "serve the HTTP/WebSocket session API instead of running a file")
		apiPort     = flag.Int("port", 8080, "listen address port (used with -api-server)")
		enableTrace = flag.Bool("trace", false, "enable the instruction/register trace")
		traceFile   = flag.String("trace-file", "", "trace output file (default: trace.log)")
		enableStats = flag.Bool("stats", false, "enable execution statistics")
		statsFile   = flag.String("stats-file", "", "statistics output file (default: stats.json)")
	)
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(cfg, *apiPort)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: ippc [flags] <input>")
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not open %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	state := cpu.NewState()
	mem := cpu.NewMemory(int(cfg.Memory.SizeBytes))

	if *memoryImage != "" {
		if err := loader.LoadImage(mem, *memoryImage, 0x80000000); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := interp.NewContext(string(source), state, mem, os.Stdout)

	var stats *trace.Statistics
	var itrace *trace.InstructionTrace
	if *enableStats {
		stats = trace.NewStatistics()
	}
	if *enableTrace {
		itrace = trace.NewInstructionTrace(cfg.Trace.MaxEntries)
	}
	if stats != nil || itrace != nil {
		ctx.InstructionHook = func(line int, mnemonic string) {
			if stats != nil {
				stats.RecordInstruction(mnemonic)
			}
			if itrace != nil {
				itrace.Record(line, mnemonic, state)
			}
		}
	}

	if *tuiMode {
		dbg := debugger.New(ctx)
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		writeDiagnostics(cfg, stats, itrace, enableTrace, traceFile, enableStats, statsFile)
		os.Exit(1)
	}

	writeDiagnostics(cfg, stats, itrace, enableTrace, traceFile, enableStats, statsFile)
}

func writeDiagnostics(cfg *config.Config, stats *trace.Statistics, itrace *trace.InstructionTrace, enableTrace *bool, traceFile *string, enableStats *bool, statsFile *string) {
	if stats != nil {
		path := *statsFile
		if path == "" {
			path = cfg.Statistics.OutputFile
		}
		if f, err := os.Create(path); err == nil {
			defer f.Close()
			_ = stats.WriteJSON(f)
		}
	}
	if itrace != nil {
		path := *traceFile
		if path == "" {
			path = cfg.Trace.OutputFile
		}
		if f, err := os.Create(path); err == nil {
			defer f.Close()
			for _, e := range itrace.Entries() {
				fmt.Fprintf(f, "%d: %s\n", e.Line, e.Mnemonic)
				for _, d := range e.Changes {
					fmt.Fprintf(f, "  %s: %#x -> %#x\n", d.Name, d.Old, d.New)
				}
			}
		}
	}
}

func runAPIServer(cfg *config.Config, port int) {
	addr := cfg.API.ListenAddr
	if port != 8080 {
		addr = fmt.Sprintf("127.0.0.1:%d", port)
	}

	server := api.NewServer(addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("ippc API server listening on %s\n", addr)
		errChan <- server.Start()
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
			os.Exit(1)
		}
	case err := <-errChan:
		if err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}
}
