// This file is part of Gopher65.
//
// Gopher65 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher65 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher65.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/term"

	"github.com/gopher65/gopher65/environment"
	"github.com/gopher65/gopher65/hardware"
	"github.com/gopher65/gopher65/hardware/memory/banking"
	"github.com/gopher65/gopher65/hardware/snapshot"
	"github.com/gopher65/gopher65/logger"
	"github.com/gopher65/gopher65/modalflag"
	"github.com/gopher65/gopher65/performance"
	"github.com/gopher65/gopher65/prefs"
	"github.com/gopher65/gopher65/script"
	"github.com/gopher65/gopher65/statsview"
	"github.com/gopher65/gopher65/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when an alternative handler is
	// more appropriate. for example, the RUN mode stops a running script on
	// interrupt.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args any
}

// communication between the main() function and the launch() function
type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// default interrupt handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a go routine. further communication is through the
	// mainSync instance
	go launch(sync, os.Args[1:], os.Stdout)

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate when to quit.
func launch(sync *mainSync, args []string, output io.Writer) {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "MAP", "SNAPSHOT", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync, output)

	case "MAP":
		err = mapping(md, output)

	case "SNAPSHOT":
		err = snapshotMode(md, output)

	case "PERFORMANCE":
		err = perform(md, output)

	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// set the echo of the central logger. log entries are colourised if the
// output is a terminal
func echoLog(output io.Writer) {
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.SetEcho(logger.NewColorizer(output), false)
		return
	}
	logger.SetEcho(output, false)
}

// create a new machine. the preferences string is pushed onto the prefs
// command line stack before the machine's preferences are created
func newMachine(prefsOverride string) (*hardware.Machine, error) {
	if prefsOverride != "" {
		prefs.PushCommandLineStack(prefsOverride)
		defer prefs.PopCommandLineStack()
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	if err != nil {
		return nil, err
	}

	return hardware.NewMachine(env)
}

// load a ROM image into the machine if filename is not empty
func loadROM(m *hardware.Machine, filename string) error {
	if filename == "" {
		return nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return m.Mem.LoadROM(data)
}

func run(md *modalflag.Modes, sync *mainSync, output io.Writer) error {
	md.NewMode()

	prefsOverride := md.AddString("prefs", "", "preferences to override. eg. \"hardware.variant::MEGA65; dma.policy::INTERLEAVE\"")
	scriptFile := md.AddString("script", "", "lua script to drive the machine")
	log := md.AddBool("log", false, "echo log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	md.AdditionalHelp("The optional argument is a ROM image to load before running the script.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		echoLog(output)
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("stats server not available in this build")
		}
		statsview.Launch(output)
	}

	var romFile string
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		romFile = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	m, err := newMachine(*prefsOverride)
	if err != nil {
		return err
	}

	if err := loadROM(m, romFile); err != nil {
		return err
	}

	if *scriptFile == "" {
		fmt.Fprint(output, m.Summary())
		return nil
	}

	// the script is stopped by the interrupt signal rather than the program
	sync.state <- stateRequest{req: reqNoIntSig}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := script.NewScript(m, output)
	defer s.Close()
	s.SetContext(ctx)

	return s.RunFile(*scriptFile)
}

// parse the arguments of the MAP mode into a bank configuration
func mapping(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	mask := md.AddInt("mask", 0, "map mask. one bit per 8KB block")
	lo := md.AddInt("lo", 0, "offset for blocks 0 to 3")
	hi := md.AddInt("hi", 0, "offset for blocks 4 to 7")
	mbLo := md.AddInt("mblo", 0, "megabyte for blocks 0 to 3")
	mbHi := md.AddInt("mbhi", 0, "megabyte for blocks 4 to 7")
	port := md.AddInt("port", 7, "value of the CPU port")
	overlay := md.AddInt("overlay", 0, "value of the ROM overlay register")
	dot := md.AddString("dot", "", "write a memviz graph of the configuration and table to file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	cfg := banking.Config{
		MapMask:      uint8(*mask),
		OffsetLow:    uint32(*lo) & 0xfffff,
		OffsetHigh:   uint32(*hi) & 0xfffff,
		MegabyteLow:  uint32(*mbLo&0xff) << 20,
		MegabyteHigh: uint32(*mbHi&0xff) << 20,
		PortDDR:      0x07,
		PortData:     uint8(*port),
		ROMOverlay:   uint8(*overlay),
	}

	table := banking.Recompute(cfg)

	fmt.Fprintln(output, cfg)
	fmt.Fprint(output, table.Summary())

	if *dot != "" {
		f, err := os.Create(*dot)
		if err != nil {
			return err
		}
		memviz.Map(f, &cfg, &table)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func snapshotMode(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AddSubModes("INFO", "SAVE")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "INFO":
		return snapshotInfo(md, output)
	case "SAVE":
		return snapshotSave(md, output)
	}

	return nil
}

func snapshotInfo(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single snapshot file is required for %s mode", md)
	}

	f, err := os.Open(md.GetArg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := snapshot.Read(f)
	if err != nil {
		return err
	}

	table := banking.Recompute(c.Config)

	fmt.Fprintln(output, c)
	fmt.Fprintln(output, c.Config)
	fmt.Fprint(output, table.Summary())

	return nil
}

func snapshotSave(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	prefsOverride := md.AddString("prefs", "", "preferences to override")
	romFile := md.AddString("rom", "", "ROM image to load")
	scriptFile := md.AddString("script", "", "lua script to run before saving")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a single snapshot file is required for %s mode", md)
	}

	m, err := newMachine(*prefsOverride)
	if err != nil {
		return err
	}

	if err := loadROM(m, *romFile); err != nil {
		return err
	}

	if *scriptFile != "" {
		s := script.NewScript(m, output)
		defer s.Close()
		if err := s.RunFile(*scriptFile); err != nil {
			return err
		}
	}

	f, err := os.Create(md.GetArg(0))
	if err != nil {
		return err
	}

	if err := snapshot.Save(f, m); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	prefsOverride := md.AddString("prefs", "", "preferences to override")
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "none", "run performance check with profiling: comma separated CPU, MEM, TRACE or NONE")
	scriptFile := md.AddString("script", "", "lua script defining the instruction() function. the DMA benchmark is used if not specified")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	m, err := newMachine(*prefsOverride)
	if err != nil {
		return err
	}

	var cpu hardware.CPU
	if *scriptFile == "" {
		cpu = performance.NewBenchmark(m)
	} else {
		s := script.NewScript(m, output)
		defer s.Close()
		if err := s.RunFile(*scriptFile); err != nil {
			return err
		}
		cpu = s
	}

	return performance.Check(output, prf, m, cpu, *duration)
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Fprintf(output, "%s %s\n", version.ApplicationName, ver)
	if *revision {
		if rev == "" {
			rev = "no revision information"
		}
		fmt.Fprintln(output, strings.TrimSpace(rev))
	}

	return nil
}
