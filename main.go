// This is the main-driver for our compiler.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"minic/compiler"
	"minic/config"
)

var rootCmd = &cobra.Command{
	Use:  "minic 'source program'",
	Args: cobra.ExactArgs(1),
	Run:  run,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Insert debug \"stuff\" in our generated output.")
	rootCmd.PersistentFlags().Bool("compile", false, "Compile the program, via invoking the system assembler driver.")
	rootCmd.PersistentFlags().StringP("filename", "o", "", "The binary to write, post-assembly.")
	rootCmd.PersistentFlags().Bool("run", false, "Run the binary, post-compile.")
}

func run(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %s\n", err.Error())
		os.Exit(1)
	}

	debug, _ := cmd.PersistentFlags().GetBool("debug")
	doCompile, _ := cmd.PersistentFlags().GetBool("compile")
	doRun, _ := cmd.PersistentFlags().GetBool("run")
	program, _ := cmd.PersistentFlags().GetString("filename")
	if program == "" {
		program = cfg.Driver.OutputName
	}

	if doRun {
		doCompile = true
	}
	if cfg.Driver.RunAfterBuild {
		doRun = true
		doCompile = true
	}

	comp := compiler.New(args[0])
	if debug || cfg.Codegen.Debug {
		comp.SetDebug(true)
	}

	out, err := comp.Compile()
	if err != nil {
		fmt.Printf("Error compiling: %s\n", err.Error())
		os.Exit(1)
	}

	if !doCompile {
		fmt.Printf("%s", out)
		return
	}

	assembler := cfg.Driver.Assembler
	as := exec.Command(assembler, "-static", "-o", program, "-x", "assembler", "-")
	as.Stdout = os.Stdout
	as.Stderr = os.Stderr

	var b bytes.Buffer
	b.WriteString(out)
	as.Stdin = &b

	if err := as.Run(); err != nil {
		fmt.Printf("Error launching %s: %s\n", assembler, err)
		os.Exit(1)
	}

	if doRun {
		exe := exec.Command(program)
		exe.Stdout = os.Stdout
		exe.Stderr = os.Stderr
		err := exe.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The compiled program's own exit status is the whole
			// point of running it - propagate it verbatim rather
			// than collapsing every nonzero code to 1.
			os.Exit(exitErr.ExitCode())
		}
		if err != nil {
			fmt.Printf("Error launching %s: %s\n", program, err)
			os.Exit(1)
		}
		os.Exit(0)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
