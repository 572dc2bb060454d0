package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bond-kaneko/go-calculator/keymap"
	"github.com/bond-kaneko/go-calculator/repl"
)

func main() {
	if !repl.IsTerminal(os.Stdin) {
		fmt.Println("keytest needs an interactive terminal")
		os.Exit(1)
	}

	restore, err := repl.MakeRaw(os.Stdin)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer restore()

	out := repl.NewCRLFWriter(os.Stdout)
	fmt.Fprintln(out, "Press keys to see how they decode. Ctrl+C to exit.")

	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(out, "Error reading input: %v\n", err)
			}
			return
		}

		fmt.Fprintf(out, "raw: %q\n", buf[:n])
		for _, k := range keymap.Decode(buf[:n]) {
			if k.Ctrl && k.Name == "c" {
				return
			}
			if a, ok := keymap.Action(k); ok {
				fmt.Fprintf(out, "  %-10s -> %s\n", k, a)
			} else {
				fmt.Fprintf(out, "  %-10s (unmapped)\n", k)
			}
		}
	}
}
