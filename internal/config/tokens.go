package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptText is shown when no token was supplied any other way.
const PromptText = "Enter Solana token address: "

// TokenSources lists where tokens may come from, in the order they are used.
type TokenSources struct {
	Flags []string // --token values
	Args  []string // positional arguments
	File  string   // --token-file

	// Prompt is read for a single token when all other sources are empty.
	Prompt    io.Reader
	PromptOut io.Writer
}

// CollectTokens merges every source, preserving input order. The result is never
// empty: the interactive prompt is the last resort.
func CollectTokens(src TokenSources) ([]string, error) {
	var tokens []string
	for _, group := range [][]string{src.Flags, src.Args} {
		for _, t := range group {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}

	if src.File != "" {
		fromFile, err := ReadTokenFile(src.File)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, fromFile...)
	}

	if len(tokens) > 0 {
		return tokens, nil
	}

	token, err := promptToken(src.Prompt, src.PromptOut)
	if err != nil {
		return nil, err
	}
	return []string{token}, nil
}

// ReadTokenFile returns one token per non-blank line.
func ReadTokenFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "read token file", Err: err}
	}
	defer f.Close()

	var tokens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			tokens = append(tokens, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Op: "read token file", Err: err}
	}
	return tokens, nil
}

func promptToken(in io.Reader, out io.Writer) (string, error) {
	if in == nil {
		return "", &Error{Op: "prompt", Err: errors.New("no tokens supplied")}
	}
	if out != nil {
		fmt.Fprint(out, PromptText)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &Error{Op: "prompt", Err: err}
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", &Error{Op: "prompt", Err: errors.New("no token entered")}
	}
	return token, nil
}
