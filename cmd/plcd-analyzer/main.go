// Package main provides the command-line front end for the grammar
// analyzer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	semver "github.com/Masterminds/semver/v3"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/analyzer"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/watch"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOut     = flag.Bool("json", false, "emit the analysis result as JSON")
		filePath    = flag.String("file", "", "analyze each non-empty line of the given file")
		watchFile   = flag.String("watch", "", "watch the given file and re-analyze it on change")
	)

	flag.Parse()

	if *showVersion {
		v, err := semver.NewVersion(version)
		if err != nil {
			log.Fatalf("invalid build version %q: %v", version, err)
		}
		fmt.Printf("PLCD Grammar Analyzer v%s (%s)\n", v, commit)
		return
	}
	if *showHelp {
		showUsage()
		return
	}

	switch {
	case *watchFile != "":
		if err := runWatch(*watchFile, *jsonOut); err != nil {
			log.Fatalf("watch: %v", err)
		}
	case *filePath != "":
		ok, err := analyzeFile(*filePath, *jsonOut)
		if err != nil {
			log.Fatalf("analyze: %v", err)
		}
		if !ok {
			os.Exit(1)
		}
	default:
		expression := strings.TrimSpace(strings.Join(flag.Args(), " "))
		if expression == "" {
			fmt.Println("Error: No expression specified")
			showUsage()
			os.Exit(1)
		}
		result := analyzer.Analyze(expression)
		printResult(result, *jsonOut)
		if result.Status != analyzer.StatusSuccess {
			os.Exit(1)
		}
	}
}

func printResult(result *analyzer.Result, jsonOut bool) {
	if jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encode result: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	analyzer.WriteText(os.Stdout, result)
}

// analyzeFile analyzes each non-empty line independently; every line
// gets a fresh symbol table. Returns whether all lines succeeded.
func analyzeFile(path string, jsonOut bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	ok := true
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result := analyzer.AnalyzeAt(line, i+1)
		fmt.Printf("\n--- line %d: %s\n", i+1, line)
		printResult(result, jsonOut)
		if result.Status != analyzer.StatusSuccess {
			ok = false
		}
	}
	return ok, nil
}

// runWatch re-analyzes the file whenever it is written.
func runWatch(path string, jsonOut bool) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return err
	}

	if _, err := analyzeFile(path, jsonOut); err != nil {
		return err
	}
	log.Printf("watching %s", path)

	for {
		select {
		case ev := <-w.Events():
			if ev.Op&(watch.OpRemove|watch.OpRename) != 0 {
				return fmt.Errorf("%s was removed", path)
			}
			if ev.Op&(watch.OpWrite|watch.OpCreate) == 0 {
				continue
			}
			if _, err := analyzeFile(path, jsonOut); err != nil {
				log.Printf("re-analyze: %v", err)
			}
		case err := <-w.Errors():
			return err
		}
	}
}

func showUsage() {
	fmt.Println("Usage: plcd-analyzer [options] \"<statement>\"")
	fmt.Println()
	fmt.Println("Analyzes one line of pseudo-C source text and reports its lexical")
	fmt.Println("tokens, syntactic validity and semantic correctness.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  plcd-analyzer \"int x = 5\"")
	fmt.Println("  plcd-analyzer \"double pi = 3.14\"")
	fmt.Println("  plcd-analyzer -json \"x + y * 2\"")
	fmt.Println("  plcd-analyzer -watch statements.txt")
}
