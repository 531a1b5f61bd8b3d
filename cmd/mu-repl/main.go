package main

import (
	"flag"
	"fmt"
	"os"

	mu "github.com/mu-lang/mu"
)

func main() {
	var (
		loadFile    = flag.String("load", "", "Path to a source file to read, compile, and evaluate")
		evalStr     = flag.String("eval", "", "Source text to read, compile, and evaluate")
		interactive = flag.Bool("i", false, "Interactive REPL (TUI)")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *loadFile == "" && *evalStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: mu-repl -load <file.mu>")
		fmt.Fprintln(os.Stderr, "       mu-repl -eval '(mu:fx-add 1 2)'")
		fmt.Fprintln(os.Stderr, "       mu-repl -i  (interactive REPL)")
		os.Exit(1)
	}

	if err := run(*loadFile, *evalStr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(loadFile, evalStr string) error {
	m, err := mu.New()
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}

	src, path := evalStr, "<eval>"
	if loadFile != "" {
		data, rerr := os.ReadFile(loadFile)
		if rerr != nil {
			return fmt.Errorf("read file: %w", rerr)
		}
		src, path = string(data), loadFile
	}

	result, err := m.RunString(src, path)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	out, err := m.Write(result)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Println(out)
	return nil
}
