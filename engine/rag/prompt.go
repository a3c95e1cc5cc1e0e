package rag

import (
	"strings"
	"text/template"
)

// RefusalAnswer is returned whenever the retrieved context does not
// explicitly contain the requested information.
const RefusalAnswer = "Não tenho informações necessárias para responder sua pergunta."

// NoContextSentinel stands in for the context block when retrieval came
// back empty. It never collides with real chunk content.
const NoContextSentinel = "Nenhum contexto encontrado."

// FallbackAnswer is what the query path shows the user when retrieval or
// generation fails. The interactive loop must keep running.
const FallbackAnswer = "Erro interno. Tente novamente."

const promptText = `CONTEXTO:
{{.Context}}

REGRAS:
- Responda somente com base no CONTEXTO.
- Se a informação não estiver explicitamente no CONTEXTO, responda:
  "Não tenho informações necessárias para responder sua pergunta."
- Nunca invente ou use conhecimento externo.
- Nunca produza opiniões ou interpretações além do que está escrito.

EXEMPLOS DE PERGUNTAS FORA DO CONTEXTO:
Pergunta: "Qual é a capital da França?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Quantos clientes temos em 2024?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

Pergunta: "Você acha isso bom ou ruim?"
Resposta: "Não tenho informações necessárias para responder sua pergunta."

PERGUNTA DO USUÁRIO:
{{.Question}}

RESPONDA A "PERGUNTA DO USUÁRIO"`

var promptTemplate = template.Must(template.New("answer").Parse(promptText))

// RenderPrompt substitutes the formatted context and the user question
// into the grounding template.
func RenderPrompt(context, question string) string {
	var b strings.Builder
	promptTemplate.Execute(&b, struct {
		Context  string
		Question string
	}{Context: context, Question: question})
	return b.String()
}

// ExtractText normalizes raw model output into the final answer text.
func ExtractText(raw string) string {
	return strings.TrimSpace(raw)
}
