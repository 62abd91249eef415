package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	"github.com/pyritelang/pyrite/pkg/sys"
)

const continuationPrompt = "... "

// Interact runs an interactive session until EOF, returning the process
// exit code. Prompts are only printed when stdin is a terminal. Statements
// opening a block continue on the following lines and are submitted by a
// blank line, like the reference interpreter's interactive mode. SIGINT
// aborts the statement being evaluated.
func Interact(eng *eval.Engine, cfg *Config, fds [3]*os.File) int {
	cleanup := initSignal(eng, fds[2])
	defer cleanup()

	interactive := sys.IsATTY(fds[0].Fd())
	rd := bufio.NewReader(fds[0])
	for {
		code, err := readStatement(rd, fds[1], cfg.prompt(), interactive)
		if err == io.EOF {
			if interactive {
				fmt.Fprintln(fds[1])
			}
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "read error:", err)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		v, err := eng.Eval(code)
		if err != nil {
			showError(fds[2], err, interactive)
		} else if v != nil {
			fmt.Fprintln(fds[1], vals.Repr(v))
		}
	}
	return eng.ExitCode()
}

// readStatement reads one logical statement: a single line, or, when the
// line opens a block, every following line up to a blank one.
func readStatement(rd *bufio.Reader, w io.Writer, prompt string, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(w, prompt)
	}
	line, err := readLine(rd)
	if err != nil {
		return "", err
	}
	if !opensBlock(line) {
		return line, nil
	}
	var sb strings.Builder
	sb.WriteString(line)
	for {
		if interactive {
			fmt.Fprint(w, continuationPrompt)
		}
		line, err := readLine(rd)
		if err == io.EOF {
			return sb.String(), nil
		} else if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			return sb.String(), nil
		}
		sb.WriteString("\n")
		sb.WriteString(line)
	}
}

func readLine(rd *bufio.Reader) (string, error) {
	line, err := rd.ReadString('\n')
	if err == io.EOF && line != "" {
		return strings.TrimSuffix(line, "\r"), nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// opensBlock reports whether the line is a block opener, which in this
// indentation-based grammar always ends with a colon outside comments.
func opensBlock(line string) bool {
	if i := commentStart(line); i >= 0 {
		line = line[:i]
	}
	return strings.HasSuffix(strings.TrimRight(line, " \t"), ":")
}

// commentStart returns the index of a # starting a comment, skipping over
// string literals, or -1.
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return i
		}
	}
	return -1
}
