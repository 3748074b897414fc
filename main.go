package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/inrick/chip8vm/chip8"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	frontendvar string
	hzvar       int
	scalevar    int
	holdvar     time.Duration
	seedvar     int64
	tracevar    bool
	disasmvar   bool
	versionvar  bool
)

const usage = "chip8vm [flags] <rom file>"

func init() {
	// The GL context must stay on the main thread.
	runtime.LockOSThread()

	flag.StringVar(&frontendvar, "frontend", "gl", "Display frontend: gl or term")
	flag.IntVar(&hzvar, "hz", 500, "Instructions executed per second")
	flag.IntVar(&scalevar, "scale", 15, "Window pixels per display pixel (gl)")
	flag.DurationVar(&holdvar, "hold", 200*time.Millisecond, "How long a key press counts as held (term)")
	flag.Int64Var(&seedvar, "seed", 0, "Random seed, 0 picks one from the clock")
	flag.BoolVar(&tracevar, "trace", false, "Log every executed instruction")
	flag.BoolVar(&disasmvar, "disasm", false, "Print a disassembly of the ROM and exit")
	flag.BoolVar(&versionvar, "version", false, "Print version information and exit")
}

// newLogger logs to w, including instruction traces if trace is set.
func newLogger(w io.Writer, trace bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = w
	if trace {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}

func newFrontend(name string, logger *log.Logger) (frontend, error) {
	switch name {
	case "gl":
		return newGLFrontend(scalevar)
	case "term":
		return newTermFrontend(holdvar, logger)
	}
	return nil, fmt.Errorf("unknown frontend %q", name)
}

func chip8vm() int {
	flag.Parse()
	logger := newLogger(os.Stderr, tracevar)

	if versionvar {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return 0
	}

	args := flag.Args()
	if len(args) != 1 {
		logger.Error("Invalid arguments", log.String("usage", usage))
		return 1
	}
	if err := validateHz(hzvar); err != nil {
		logger.Error("Invalid -hz flag", log.Err(err))
		return 1
	}

	rom, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("Reading ROM file failed", log.Err(err))
		return 1
	}

	if disasmvar {
		if err := chip8.Disassemble(os.Stdout, rom, chip8.ProgramStart); err != nil {
			logger.Error("Disassembling failed", log.Err(err))
			return 1
		}
		return 0
	}

	var opts []chip8.Option
	if seedvar != 0 {
		opts = append(opts, chip8.WithSeed(seedvar))
	}
	if tracevar {
		opts = append(opts, chip8.WithTracer(logTracer{logger: logger}))
	}

	c8 := chip8.New(opts...)
	if err := c8.LoadProgram(rom); err != nil {
		logger.Error("Loading ROM file failed", log.String("file", args[0]), log.Err(err))
		return 1
	}

	fe, err := newFrontend(frontendvar, logger)
	if err != nil {
		logger.Error("Starting frontend failed", log.Err(err))
		return 1
	}

	err = run(c8, fe, hzvar)
	fe.Close()
	if err != nil {
		logger.Error("Machine halted", log.Err(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(chip8vm())
}
