//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Post runs the generate command for a request file and saves the result
// under output/posts.
func Post(request string) error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate",
		"--request", request, "--save", "output/posts")
}

// Posts runs Post for every YAML request in requests/.
func Posts() error {
	mg.Deps(Init, Build)
	files, err := filepath.Glob(filepath.Join("requests", "*.yaml"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No requests found in requests/.")
		return nil
	}
	for _, f := range files {
		fmt.Println("[post]", f)
		if err := Post(f); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
	}
	return nil
}

// Brief researches a topic and writes the brief to output/briefs.
func Brief(topic string) error {
	mg.Deps(Init, Build)
	out, err := sh.Output(filepath.Join(binDir, binName), "research", "--topic", topic)
	if err != nil {
		return err
	}
	path := filepath.Join("output", "briefs", slug(topic)+".md")
	if err := writeFile(path, out+"\n"); err != nil {
		return err
	}
	fmt.Println("Saved", path)
	return nil
}

// slug turns a topic into a lowercase, dash-separated file name.
func slug(s string) string {
	f := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(f) == 0 {
		return "brief"
	}
	return strings.Join(f, "-")
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
