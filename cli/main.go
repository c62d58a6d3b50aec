package main

import (
	"fmt"
	"os"

	"github.com/RobertP-SyndicateLabs/turtle-logo/compiler"
	"github.com/RobertP-SyndicateLabs/turtle-logo/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: turtle-logo <command> [args]")
		os.Exit(1)
	}

	cmd := os.Args[1]

	switch cmd {
	case "run":
		doRun(os.Args[2:])
	case "lex":
		doLex(os.Args[2:])
	default:
		fmt.Println("unknown command:", cmd)
		os.Exit(1)
	}
}

func doRun(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: turtle-logo run <file.logo>")
		os.Exit(1)
	}

	log := logger.New(os.Stderr)
	in, err := compiler.RunFile(args[0], compiler.DefaultConfig(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	for _, line := range in.Output() {
		fmt.Println(line)
	}
}

func doLex(args []string) {
	if len(args) == 0 {
		fmt.Println("usage: turtle-logo lex <file.logo>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("error reading file:", err)
		os.Exit(1)
	}

	lx := compiler.NewLexer(string(data))

	for {
		tok := lx.NextToken()
		fmt.Printf("%-10s %-20q (%d:%d)\n", tok.Type, tok.Lexeme, tok.Line, tok.Column)

		if tok.Type == compiler.TOK_EOF {
			break
		}
		if tok.Type == compiler.TOK_ILLEGAL {
			fmt.Println("ILLEGAL token encountered, stopping.")
			break
		}
	}
}
