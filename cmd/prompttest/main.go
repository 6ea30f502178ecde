package main

// Print the prompt built for an essay, or send it to the model:
//   go run ./cmd/prompttest -essay essay.docx -call

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"essay-backend/internal/bootstrap"
	"essay-backend/internal/extract"
	"essay-backend/internal/llm"
	"essay-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	essayPath := flag.String("essay", "", "Path to essay file (txt, pdf or docx)")
	promptVersion := flag.String("prompt-version", cfg.PromptVersion, "Prompt version (v1 or v2)")
	call := flag.Bool("call", false, "Send the prompt to the model and print its response")
	outPath := flag.String("out", "", "Path to write the output (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini or openai)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*essayPath) == "" {
		exitErr("essay path is required")
	}
	if _, ok := llm.PromptTemplate(*promptVersion); !ok {
		exitErr(fmt.Sprintf("unsupported prompt version: %s", *promptVersion))
	}

	data, err := os.ReadFile(*essayPath)
	if err != nil {
		exitErr(fmt.Sprintf("read essay: %v", err))
	}
	ctx := context.Background()
	text, err := extract.ExtractText(ctx, data, filepath.Base(*essayPath), "")
	if err != nil {
		exitErr(fmt.Sprintf("extract essay text: %v", err))
	}

	prompt := llm.BuildPrompt(*promptVersion, text)
	out := []byte(prompt)

	if *call {
		cfg.LLMProvider = *provider
		cfg.LLMModel = *model
		cfg.Env = "production"
		client, err := bootstrap.NewLLMClient(ctx, cfg)
		if err != nil {
			exitErr(err.Error())
		}
		resp, err := client.Generate(ctx, prompt)
		if err != nil {
			exitErr(fmt.Sprintf("llm generate: %v", err))
		}
		out = prettyIfJSON(resp)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

// prettyIfJSON indents resp when the model returned a JSON document and leaves it alone otherwise.
func prettyIfJSON(resp string) []byte {
	var buf bytes.Buffer
	if json.Valid([]byte(resp)) {
		if err := json.Indent(&buf, []byte(resp), "", "  "); err == nil {
			return buf.Bytes()
		}
	}
	return []byte(resp)
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
