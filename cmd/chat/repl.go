package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Answerer produces a grounded answer for a question.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

// HealthChecker verifies the store connection.
type HealthChecker interface {
	Health(ctx context.Context) error
}

const banner = `Chat com seu PDF. Digite sua pergunta, ou 'help' para ajuda.`

const helpText = `Comandos:
  help           mostra esta ajuda
  status         verifica a conexão com o banco
  sair | quit | exit   encerra o chat

Qualquer outro texto é tratado como pergunta sobre o documento.`

// repl is the interactive question loop. One question per line; control
// commands are matched case-insensitively.
type repl struct {
	answers Answerer
	store   HealthChecker
	out     io.Writer
}

// run reads questions from in until EOF or an exit command. Individual
// question failures never break the loop.
func (r *repl) run(ctx context.Context, in io.Reader) {
	fmt.Fprintln(r.out, banner)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(r.out, "\nPergunta: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return
		}
		if !r.processLine(ctx, scanner.Text()) {
			return
		}
	}
}

// processLine handles one input line and reports whether the loop should
// continue.
func (r *repl) processLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return true
	case "sair", "quit", "exit":
		fmt.Fprintln(r.out, "Até logo!")
		return false
	case "help":
		fmt.Fprintln(r.out, helpText)
		return true
	case "status":
		if err := r.store.Health(ctx); err != nil {
			fmt.Fprintf(r.out, "Banco de dados: indisponível (%v)\n", err)
		} else {
			fmt.Fprintln(r.out, "Banco de dados: conectado")
		}
		return true
	}

	fmt.Fprintf(r.out, "Resposta: %s\n", r.answers.Answer(ctx, line))
	return true
}
