package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/chasm-rift/pkg/csm"
)

func openArchive(path string) *csm.Archive {
	archive, err := csm.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return archive
}

// matchName reports whether name matches a glob pattern or contains it,
// ignoring case.
func matchName(pattern, name string) bool {
	pattern = strings.ToLower(pattern)
	name = strings.ToLower(name)
	if matched, _ := filepath.Match(pattern, name); matched {
		return true
	}
	return !strings.ContainsAny(pattern, "*?[") && strings.Contains(name, pattern)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	long := fs.Bool("l", false, "Show sizes and offsets")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chasmtool list [-n N] [-l] <CSM.BIN> [pattern]")
		os.Exit(1)
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = fs.Arg(1)
	}

	sizes := make(map[string]*csm.Entry)
	for _, e := range archive.Entries() {
		sizes[e.Name] = e
	}

	count := 0
	var total uint64
	for _, f := range archive.List() {
		if pattern != "" && !matchName(pattern, f) {
			continue
		}
		if *long {
			e := sizes[f]
			fmt.Printf("%-12s %9d  0x%08X\n", f, e.Size, e.Offset)
			total += uint64(e.Size)
		} else {
			fmt.Println(f)
		}
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	if *long {
		fmt.Fprintf(os.Stderr, "\n(%d files, %.2f MB)\n", count, float64(total)/(1024*1024))
	} else if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d files matched)\n", count)
	}
}

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: chasmtool extract <CSM.BIN> <name|pattern> [output_dir]")
		os.Exit(1)
	}

	name := fs.Arg(1)
	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive := openArchive(fs.Arg(0))
	defer archive.Close()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	var names []string
	if strings.ContainsAny(name, "*?[") {
		for _, f := range archive.List() {
			if matchName(name, f) {
				names = append(names, f)
			}
		}
	} else {
		if !archive.Contains(name) {
			fmt.Fprintf(os.Stderr, "File not found: %s\n", name)
			os.Exit(1)
		}
		names = []string{name}
	}

	extracted := 0
	for _, f := range names {
		data, err := archive.Read(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f, err)
			continue
		}

		outputPath := filepath.Join(outputDir, filepath.Base(f))
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			continue
		}

		fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
		extracted++
	}

	if len(names) > 1 {
		fmt.Fprintf(os.Stderr, "\nExtracted %d files\n", extracted)
	}
}
